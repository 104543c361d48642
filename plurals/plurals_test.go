package plurals

import (
	"reflect"
	"testing"

	"github.com/minios-linux/icucheck/msgformat"
)

var sampleLocales = []string{
	"en-US", "de-DE", "fr", "ja-JP", "zh-Hant-TW", "ko", "th-TH", "ru-RU", "uk",
	"pl-PL", "cs", "ar-EG", "ga-IE", "he", "sl", "xx", "",
}

func TestRequired_AlwaysContainsOther(t *testing.T) {
	for _, loc := range sampleLocales {
		if cats := Required(loc, msgformat.KindPlural); !Contains(cats, Other) {
			t.Errorf("Required(%q, plural) = %v, missing other", loc, cats)
		}
		for _, kind := range []msgformat.Kind{msgformat.KindSelect, msgformat.KindSelectOrdinal} {
			if cats := Required(loc, kind); !reflect.DeepEqual(cats, []string{Other}) {
				t.Errorf("Required(%q, %v) = %v, want [other]", loc, kind, cats)
			}
		}
	}
}

func TestRequired_Table(t *testing.T) {
	cases := []struct {
		locale string
		want   []string
	}{
		{locale: "ja-JP", want: []string{"other"}},
		{locale: "zh_CN", want: []string{"other"}},
		{locale: "ru-RU", want: []string{"one", "few", "other"}},
		{locale: "pl", want: []string{"one", "few", "other"}},
		{locale: "ar", want: []string{"zero", "one", "two", "few", "many", "other"}},
		{locale: "ga-IE", want: []string{"one", "two", "other"}},
		{locale: "de-DE", want: []string{"one", "other"}},
		{locale: "en-US", want: []string{"one", "other"}},
	}
	for _, tc := range cases {
		if got := Required(tc.locale, msgformat.KindPlural); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Required(%q) = %v, want %v", tc.locale, got, tc.want)
		}
	}
}

func TestRequired_ReturnsCopy(t *testing.T) {
	got := Required("ru", msgformat.KindPlural)
	got[0] = "mutated"
	if again := Required("ru", msgformat.KindPlural); again[0] != "one" {
		t.Fatalf("table was mutated through returned slice: %v", again)
	}
}

func TestResolver_Memoizes(t *testing.T) {
	r := NewResolver()
	first := r.Required("ru-RU", msgformat.KindPlural)
	first[0] = "mutated"
	second := r.Required("ru-RU", msgformat.KindPlural)
	if !reflect.DeepEqual(second, []string{"one", "few", "other"}) {
		t.Fatalf("Resolver.Required() = %v", second)
	}
	r.Required("ru-RU", msgformat.KindSelect)
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
}

func TestSort(t *testing.T) {
	cats := []string{"other", "male", "=10", "few", "=2", "one", "female", "zero"}
	Sort(cats)
	want := []string{"zero", "one", "few", "other", "=2", "=10", "female", "male"}
	if !reflect.DeepEqual(cats, want) {
		t.Fatalf("Sort() = %v, want %v", cats, want)
	}
}

func TestIsExtraPluralForm(t *testing.T) {
	for cat, want := range map[string]bool{"two": true, "few": true, "many": true, "one": false, "other": false, "zero": false} {
		if got := IsExtraPluralForm(cat); got != want {
			t.Errorf("IsExtraPluralForm(%q) = %v, want %v", cat, got, want)
		}
	}
}
