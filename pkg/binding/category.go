package binding

import (
	"fmt"
	"strings"
)

// Category aliases accepted by the expense profile.
const (
	CategoryOvertimeNight   = "overtime-night"
	CategoryOvertimeWeekend = "overtime-weekend"
	CategoryInlandTrip      = "inland-trip"
	CategoryTravelTransport = "travel-transport"
	CategoryCityTransport   = "city-transport"
	CategoryLodging         = "lodging"
)

// Default category keywords.
const (
	KeywordInlandTrip      = "出差补贴-省内出差补贴"
	KeywordWeekend         = "周末加班"
	KeywordWeekday         = "晚上加班"
	KeywordTravelTransport = "差旅交通"
	KeywordCityTransport   = "市内交通"
	KeywordLodging         = "住宿"
)

// aliasKeywords is the option keyword each known alias falls back to when
// no key is configured for it.
var aliasKeywords = map[string]string{
	CategoryOvertimeNight:   KeywordWeekday,
	CategoryOvertimeWeekend: KeywordWeekend,
	CategoryInlandTrip:      KeywordInlandTrip,
	CategoryTravelTransport: KeywordTravelTransport,
	CategoryCityTransport:   KeywordCityTransport,
	CategoryLodging:         KeywordLodging,
}

// CategoryKeys maps category aliases to selector option keys.
type CategoryKeys map[string]string

// CategoryRequest is what the operator asked for.
type CategoryRequest struct {
	Key     string
	Type    string
	Keyword string
}

// ResolveCategory decides the category selector choice for a claim dated
// date. The key comes from the explicit key, then the alias table, then,
// without an alias, the weekend or weekday default. A known alias missing
// from the table leaves the key empty so the option is found by keyword.
// The keyword comes from the explicit keyword, then the alias default, then
// the weekend or weekday default.
func ResolveCategory(req CategoryRequest, date int64, keys CategoryKeys) (Choice, error) {
	weekend := IsWeekend(date)
	typ := strings.TrimSpace(req.Type)

	aliasKeyword, known := aliasKeywords[typ]
	key := strings.TrimSpace(req.Key)
	if key == "" && typ != "" {
		aliased, ok := keys[typ]
		if !ok && !known {
			return Choice{}, fmt.Errorf("%w: %q", ErrUnknownCategoryType, typ)
		}
		key = aliased
	}
	if key == "" && typ == "" {
		if weekend {
			key = keys[CategoryOvertimeWeekend]
		} else {
			key = keys[CategoryOvertimeNight]
		}
	}

	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		switch {
		case aliasKeyword != "":
			keyword = aliasKeyword
		case weekend:
			keyword = KeywordWeekend
		default:
			keyword = KeywordWeekday
		}
	}
	return Choice{Key: key, Keyword: keyword}, nil
}
