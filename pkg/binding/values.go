package binding

// Content is one entry of apply_data.contents.
type Content struct {
	Control string `json:"control"`
	ID      string `json:"id"`
	Value   any    `json:"value"`
}

// AttendanceOvertime is the attendance subtype WeCom uses for overtime.
const AttendanceOvertime = 5

type TextValue struct {
	Text string `json:"text"`
}

type NumberValue struct {
	NewNumber string `json:"new_number"`
}

type MoneyValue struct {
	NewMoney string `json:"new_money"`
}

type Member struct {
	UserID string `json:"userid"`
}

type ContactValue struct {
	Members []Member `json:"members"`
}

type SelectorKey struct {
	Key string `json:"key"`
}

type Selector struct {
	Type    string        `json:"type"`
	Options []SelectorKey `json:"options"`
}

type SelectorValue struct {
	Selector Selector `json:"selector"`
}

type Date struct {
	Type      string `json:"type"`
	Timestamp string `json:"s_timestamp"`
}

type DateValue struct {
	Date Date `json:"date"`
}

type DateRange struct {
	Type        string `json:"type"`
	NewBegin    int64  `json:"new_begin"`
	NewEnd      int64  `json:"new_end"`
	NewDuration int64  `json:"new_duration"`
}

type DateRangeValue struct {
	DateRange DateRange `json:"date_range"`
}

type Attendance struct {
	DateRange DateRange `json:"date_range"`
	Type      int       `json:"type"`
}

type AttendanceValue struct {
	Attendance Attendance `json:"attendance"`
}

type RelatedApproval struct {
	SpNo string `json:"sp_no"`
}

type RelatedApprovalValue struct {
	RelatedApproval []RelatedApproval `json:"related_approval"`
}

type FileRef struct {
	FileID string `json:"file_id"`
}

type FilesValue struct {
	Files []FileRef `json:"files"`
}

// TableRow is one row of a Table control value.
type TableRow struct {
	List []Content `json:"list"`
}

type TableValue struct {
	Children []TableRow `json:"children"`
}

// Choice selects a selector option: Key wins when set, otherwise Keyword is
// matched against the resolved options.
type Choice struct {
	Key     string
	Keyword string
}

// Inputs carries the business values a profile may bind. Zero values mean
// "not supplied".
type Inputs struct {
	UserID      string
	Reason      string
	Purpose     string
	Remark      string
	Window      Window
	Date        int64
	Amount      string
	RelatedSpNo string
	Project     Choice
	Category    Choice
	FileID      string
	InvoiceNo   string
}
