package binding

import "github.com/goliatone/go-wecomflow/pkg/controls"

var textKinds = []string{controls.KindText, controls.KindTextarea}

// OvertimeRules is the overtime profile in priority order: reason, start,
// end, duration, applicant, attendance, date range.
func OvertimeRules() []Rule {
	return []Rule{
		{
			Field:    "reason",
			Keywords: []string{"事由", "原因", "说明", "备注"},
			Kinds:    textKinds,
			Encode:   textEncoder(func(in Inputs) string { return in.Reason }),
		},
		{
			Field:    "start",
			Keywords: []string{"开始"},
			Kinds:    []string{controls.KindDate},
			Encode:   dateEncoder("hour", func(in Inputs) int64 { return in.Window.Start }),
		},
		{
			Field:    "end",
			Keywords: []string{"结束"},
			Kinds:    []string{controls.KindDate},
			Encode:   dateEncoder("hour", func(in Inputs) int64 { return in.Window.End }),
		},
		{
			Field:    "duration",
			Keywords: []string{"时长", "小时"},
			Kinds:    []string{controls.KindText, controls.KindTextarea, controls.KindNumber},
			Encode:   durationEncoder,
		},
		{
			Field:    "applicant",
			Keywords: []string{"申请人", "加班人", "人员"},
			Kinds:    []string{controls.KindContact},
			Encode:   contactEncoder,
		},
		{
			Field:  "attendance",
			Kinds:  []string{controls.KindAttendance},
			IDs:    []string{"smart-time"},
			Encode: attendanceEncoder,
		},
		{
			Field:  "date_range",
			Kinds:  []string{controls.KindDateRange},
			Encode: dateRangeEncoder,
		},
	}
}

func durationEncoder(c controls.Control, in Inputs) (any, bool, error) {
	hours, err := Hours(in.Window.Start, in.Window.End)
	if err != nil {
		return nil, false, err
	}
	if c.Kind == controls.KindNumber {
		return NumberValue{NewNumber: hours}, true, nil
	}
	return TextValue{Text: hours}, true, nil
}

func attendanceEncoder(_ controls.Control, in Inputs) (any, bool, error) {
	dr, err := windowRange(in)
	if err != nil {
		return nil, false, err
	}
	return AttendanceValue{Attendance: Attendance{DateRange: dr, Type: AttendanceOvertime}}, true, nil
}

func dateRangeEncoder(_ controls.Control, in Inputs) (any, bool, error) {
	dr, err := windowRange(in)
	if err != nil {
		return nil, false, err
	}
	return DateRangeValue{DateRange: dr}, true, nil
}
