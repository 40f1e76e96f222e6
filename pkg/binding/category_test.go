package binding

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestResolveCategory(t *testing.T) {
	keys := CategoryKeys{
		CategoryOvertimeNight:   "opt-night",
		CategoryOvertimeWeekend: "opt-weekend",
		CategoryInlandTrip:      "opt-inland",
		CategoryLodging:         "opt-lodging",
	}
	weekday := time.Date(2026, 2, 12, 0, 0, 0, 0, CST).Unix()
	weekend := time.Date(2026, 2, 14, 0, 0, 0, 0, CST).Unix()

	tests := []struct {
		name string
		req  CategoryRequest
		date int64
		want Choice
	}{
		{name: "weekday default", date: weekday, want: Choice{Key: "opt-night", Keyword: KeywordWeekday}},
		{name: "weekend default", date: weekend, want: Choice{Key: "opt-weekend", Keyword: KeywordWeekend}},
		{name: "inland trip alias", req: CategoryRequest{Type: CategoryInlandTrip}, date: weekend, want: Choice{Key: "opt-inland", Keyword: KeywordInlandTrip}},
		{name: "alias keyword", req: CategoryRequest{Type: CategoryLodging}, date: weekday, want: Choice{Key: "opt-lodging", Keyword: KeywordLodging}},
		{name: "explicit key wins", req: CategoryRequest{Key: "opt-x", Type: CategoryLodging}, date: weekday, want: Choice{Key: "opt-x", Keyword: KeywordLodging}},
		{name: "unconfigured alias uses keyword", req: CategoryRequest{Type: CategoryCityTransport}, date: weekday, want: Choice{Keyword: KeywordCityTransport}},
		{name: "overtime alias on other day", req: CategoryRequest{Type: CategoryOvertimeNight}, date: weekend, want: Choice{Key: "opt-night", Keyword: KeywordWeekday}},
		{name: "explicit keyword", req: CategoryRequest{Keyword: "住宿"}, date: weekday, want: Choice{Key: "opt-night", Keyword: "住宿"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveCategory(tt.req, tt.date, keys)
			if err != nil {
				t.Fatalf("ResolveCategory: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("choice mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveCategory_KnownAliasWithoutKeys(t *testing.T) {
	date := time.Date(2026, 2, 12, 0, 0, 0, 0, CST).Unix()
	got, err := ResolveCategory(CategoryRequest{Type: CategoryInlandTrip}, date, CategoryKeys{})
	if err != nil {
		t.Fatalf("ResolveCategory: %v", err)
	}
	if diff := cmp.Diff(Choice{Keyword: KeywordInlandTrip}, got); diff != "" {
		t.Fatalf("choice mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveCategory_UnknownAlias(t *testing.T) {
	_, err := ResolveCategory(CategoryRequest{Type: "meals"}, 0, CategoryKeys{})
	if !errors.Is(err, ErrUnknownCategoryType) {
		t.Fatalf("expected ErrUnknownCategoryType, got %v", err)
	}
}
