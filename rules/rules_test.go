package rules

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/minios-linux/icucheck/highlight"
	"github.com/minios-linux/icucheck/msgformat"
	"github.com/minios-linux/icucheck/resource"
	"github.com/minios-linux/icucheck/result"
)

func newPair(src, tgt, tgtLocale string) resource.Pair {
	return resource.Pair{
		Key:          "key",
		SourceLocale: "en-US",
		TargetLocale: tgtLocale,
		Source:       src,
		Target:       tgt,
		HasTarget:    true,
		Path:         "app_" + tgtLocale + ".arb",
	}
}

func mustParse(t *testing.T, s string) []msgformat.Node {
	t.Helper()
	nodes, err := msgformat.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return nodes
}

func reconcile(t *testing.T, p resource.Pair) []result.Result {
	t.Helper()
	return Reconcile(NewContext(p, nil), mustParse(t, p.Source), mustParse(t, p.Target))
}

func sameAsSource(t *testing.T, p resource.Pair) []result.Result {
	t.Helper()
	return SameAsSource(NewContext(p, nil), mustParse(t, p.Source), mustParse(t, p.Target))
}

func byRule(results []result.Result, id string) []result.Result {
	var out []result.Result
	for _, r := range results {
		if r.ID == id {
			out = append(out, r)
		}
	}
	return out
}

// marked returns the text inside the e0 marker of a highlight.
func marked(hl string) string {
	start := strings.Index(hl, "<e0>")
	end := strings.Index(hl, "</e0>")
	if start < 0 || end < start {
		return ""
	}
	return hl[start+len("<e0>") : end]
}

const singularPlural = "{count, plural, one {This is singular} other {This is plural}}"

// ---------------------------------------------------------------------------
// Reconciliation
// ---------------------------------------------------------------------------

func TestReconcile_JapaneseNeedsOnlyOther(t *testing.T) {
	p := newPair(singularPlural, "{count, plural, other {これは複数形です}}", "ja-JP")
	if got := reconcile(t, p); len(got) != 0 {
		t.Fatalf("Reconcile() = %+v, want no results", got)
	}
}

func TestReconcile_RussianMissingFew(t *testing.T) {
	tgt := "{count, plural, one {Это единственное число} other {Это множественное число}}"
	got := reconcile(t, newPair(singularPlural, tgt, "ru-RU"))
	if len(got) != 1 {
		t.Fatalf("Reconcile() returned %d results, want 1: %+v", len(got), got)
	}
	r := got[0]
	if r.Severity != result.Error || r.ID != TargetCategories {
		t.Errorf("result = %+v", r)
	}
	want := "Missing categories in target string: few. Expecting these: one, few, other"
	if r.Description != want {
		t.Errorf("Description = %q, want %q", r.Description, want)
	}
	if r.Highlight != tgt+"<e0></e0>" {
		t.Errorf("Highlight = %q", r.Highlight)
	}
	if r.Locale != "ru-RU" || r.Source != singularPlural || r.PathName != "app_ru-RU.arb" {
		t.Errorf("metadata = %+v", r)
	}
}

func TestReconcile_MissingOneSuppressedWhenSourceLacksIt(t *testing.T) {
	src := "{count, plural, =1 {This is singular} other {This is plural}}"
	tgt := "{count, plural, =1 {Dies ist Einzahl} other {Dies ist Mehrzahl}}"
	if got := reconcile(t, newPair(src, tgt, "de-DE")); len(got) != 0 {
		t.Fatalf("Reconcile() = %+v, want no results", got)
	}
}

func TestReconcile_MistranslatedPivot(t *testing.T) {
	src := "{count, plural, one {# file} other {# files}}"
	tgt := "{anzahl, plural, one {# Datei} other {# Dateien}}"
	got := reconcile(t, newPair(src, tgt, "de-DE"))
	if len(got) != 1 {
		t.Fatalf("Reconcile() = %+v, want 1 result", got)
	}
	if !strings.Contains(got[0].Description, "'anzahl' does not exist in the source string") {
		t.Errorf("Description = %q", got[0].Description)
	}
	if got[0].Highlight != "<e0>{anzahl</e0>, plural, one {# Datei} other {# Dateien}}" {
		t.Errorf("Highlight = %q", got[0].Highlight)
	}
}

func TestReconcile_MovedPivotIsNotMistranslated(t *testing.T) {
	src := "<b>{count, plural, one {# file} other {# files}}</b>"
	tgt := "{count, plural, one {# Datei} other {# Dateien}}"
	if got := reconcile(t, newPair(src, tgt, "de-DE")); len(got) != 0 {
		t.Fatalf("Reconcile() = %+v, want no results", got)
	}
}

func TestReconcile_ExtraCategories(t *testing.T) {
	src := "{count, plural, one {# file} other {# files}}"
	tgt := "{count, plural, =0 {keine Dateien} one {# Datei} few {# Dateien} other {# Dateien}}"
	got := reconcile(t, newPair(src, tgt, "de-DE"))
	if len(got) != 1 {
		t.Fatalf("Reconcile() = %+v, want 1 result", got)
	}
	if got[0].Severity != result.Warning {
		t.Errorf("Severity = %v, want warning", got[0].Severity)
	}
	if !strings.HasPrefix(got[0].Description, "Extra categories in target string: few, =0.") {
		t.Errorf("Description = %q", got[0].Description)
	}
	want := "{count, plural, <e0>=0</e0> {keine Dateien} one {# Datei} <e1>few</e1> {# Dateien} other {# Dateien}}"
	if got[0].Highlight != want {
		t.Errorf("Highlight = %q, want %q", got[0].Highlight, want)
	}
}

func TestReconcile_DroppedCategories(t *testing.T) {
	t.Run("exact match dropped", func(t *testing.T) {
		src := "{count, plural, =0 {no files} one {# file} other {# files}}"
		tgt := "{count, plural, one {# Datei} other {# Dateien}}"
		got := reconcile(t, newPair(src, tgt, "de-DE"))
		if len(got) != 1 || got[0].Severity != result.Warning {
			t.Fatalf("Reconcile() = %+v, want 1 warning", got)
		}
		if !strings.HasPrefix(got[0].Description, "Missing categories in target string: =0.") {
			t.Errorf("Description = %q", got[0].Description)
		}
	})

	t.Run("select label dropped", func(t *testing.T) {
		src := "{g, select, male {He} female {She} other {They}}"
		tgt := "{g, select, male {Er} other {Sie}}"
		got := reconcile(t, newPair(src, tgt, "de-DE"))
		if len(got) != 1 || !strings.Contains(got[0].Description, "female") {
			t.Fatalf("Reconcile() = %+v, want 1 warning about female", got)
		}
	})

	t.Run("ordinal categories dropped", func(t *testing.T) {
		src := "{n, selectordinal, one {#st} two {#nd} few {#rd} other {#th}}"
		tgt := "{n, selectordinal, other {#.}}"
		got := reconcile(t, newPair(src, tgt, "de-DE"))
		if len(got) != 1 || got[0].Severity != result.Warning {
			t.Fatalf("Reconcile() = %+v, want 1 warning", got)
		}
		if !strings.HasPrefix(got[0].Description, "Missing categories in target string: one, two, few.") {
			t.Errorf("Description = %q", got[0].Description)
		}
	})

	t.Run("plural category not required by the source dropped", func(t *testing.T) {
		src := "{n, plural, zero {no files} one {# file} other {# files}}"
		tgt := "{n, plural, one {# Datei} other {# Dateien}}"
		got := reconcile(t, newPair(src, tgt, "de-DE"))
		if len(got) != 1 || got[0].Severity != result.Warning {
			t.Fatalf("Reconcile() = %+v, want 1 warning", got)
		}
		if !strings.HasPrefix(got[0].Description, "Missing categories in target string: zero.") {
			t.Errorf("Description = %q", got[0].Description)
		}
	})

	t.Run("category required by the source dropped", func(t *testing.T) {
		if got := reconcile(t, newPair(singularPlural, "{count, plural, other {これは複数形です}}", "ja-JP")); len(got) != 0 {
			t.Fatalf("Reconcile() = %+v, want no results", got)
		}
	})
}

func TestReconcile_NestedSelects(t *testing.T) {
	src := "{n, plural, one {{g, select, male {his file} other {their file}}} other {{g, select, male {his files} other {their files}}}}"
	tgt := "{n, plural, one {{geschlecht, select, male {seine Datei} other {ihre Datei}}} other {{g, select, male {seine Dateien} other {ihre Dateien}}}}"
	got := reconcile(t, newPair(src, tgt, "de-DE"))
	if len(got) != 1 {
		t.Fatalf("Reconcile() = %+v, want 1 result", got)
	}
	if !strings.Contains(got[0].Description, "'geschlecht'") {
		t.Errorf("Description = %q", got[0].Description)
	}
}

func TestReconcile_UnknownPivotInTargetOnlyContent(t *testing.T) {
	src := "{n, plural, one {# file} other {# files}}"

	t.Run("extra category", func(t *testing.T) {
		tgt := "{n, plural, =0 {{bogus, select, other {x}}} one {# Datei} other {# Dateien}}"
		got := reconcile(t, newPair(src, tgt, "de-DE"))
		if len(got) != 2 {
			t.Fatalf("Reconcile() = %+v, want 2 results", got)
		}
		if !strings.Contains(got[0].Description, "'bogus'") || got[0].Severity != result.Error {
			t.Errorf("first result = %+v", got[0])
		}
		if m := marked(got[0].Highlight); m != "{bogus" {
			t.Errorf("highlights %q, want the opening of bogus", m)
		}
		if !strings.HasPrefix(got[1].Description, "Extra categories in target string: =0.") {
			t.Errorf("second result = %+v", got[1])
		}
	})

	t.Run("inside a mistranslated select", func(t *testing.T) {
		tgt := "{anzahl, plural, one {# Datei} other {{bogus, select, other {# Dateien}}}}"
		got := reconcile(t, newPair(src, tgt, "de-DE"))
		if len(got) != 2 {
			t.Fatalf("Reconcile() = %+v, want 2 results", got)
		}
		if !strings.Contains(got[0].Description, "'anzahl'") || !strings.Contains(got[1].Description, "'bogus'") {
			t.Errorf("Reconcile() = %+v, want anzahl then bogus", got)
		}
	})

	t.Run("inside a tag only the target has", func(t *testing.T) {
		tgt := "<i>{bogus, select, other {x}}</i> {n, plural, one {# Datei} other {# Dateien}}"
		got := reconcile(t, newPair(src, tgt, "de-DE"))
		if len(got) != 1 || !strings.Contains(got[0].Description, "'bogus'") {
			t.Fatalf("Reconcile() = %+v, want bogus", got)
		}
	})

	t.Run("known pivot in extra category", func(t *testing.T) {
		tgt := "{n, plural, =0 {{n, select, other {x}}} one {# Datei} other {# Dateien}}"
		got := reconcile(t, newPair(src, tgt, "de-DE"))
		if len(got) != 1 || !strings.HasPrefix(got[0].Description, "Extra categories") {
			t.Fatalf("Reconcile() = %+v, want only the extra category", got)
		}
	})
}

func TestReconcile_ExtraPluralFormFallsBackToOther(t *testing.T) {
	src := "{n, plural, one {# file} other {{owner, select, other {# files}}}}"
	tgt := "{n, plural, one {# файл} few {{ownr, select, other {# файла}}} other {{owner, select, other {# файлов}}}}"
	got := reconcile(t, newPair(src, tgt, "ru-RU"))
	if len(got) != 1 {
		t.Fatalf("Reconcile() = %+v, want 1 result", got)
	}
	if !strings.Contains(got[0].Description, "'ownr'") {
		t.Errorf("Description = %q", got[0].Description)
	}
}

func TestReconcile_InsideTags(t *testing.T) {
	src := "<b>{count, plural, one {# file} other {# files}}</b>"
	tgt := "<b>{count, plural, one {# файл} other {# файлов}}</b>"
	got := reconcile(t, newPair(src, tgt, "ru-RU"))
	if len(got) != 1 || !strings.Contains(got[0].Description, "few") {
		t.Fatalf("Reconcile() = %+v, want missing few", got)
	}
}

func reverseOptions(nodes []msgformat.Node) {
	for _, n := range nodes {
		switch v := n.(type) {
		case *msgformat.Select:
			for i, j := 0, len(v.Options)-1; i < j; i, j = i+1, j-1 {
				v.Options[i], v.Options[j] = v.Options[j], v.Options[i]
			}
			for i := range v.Options {
				reverseOptions(v.Options[i].Value)
			}
		case *msgformat.Tag:
			reverseOptions(v.Children)
		}
	}
}

func TestReconcile_IndependentOfOptionOrder(t *testing.T) {
	src := "{count, plural, =0 {none} one {# file} other {{g, select, male {his} female {hers} other {theirs}}}}"
	tgt := "{count, plural, one {# файл} =5 {пять} many {# файлов} other {{g, select, male {его} other {их}}}}"
	p := newPair(src, tgt, "ru-RU")
	pc := NewContext(p, nil)

	want := Reconcile(pc, mustParse(t, src), mustParse(t, tgt))
	if len(want) == 0 {
		t.Fatal("expected findings for this pair")
	}

	srcNodes, tgtNodes := mustParse(t, src), mustParse(t, tgt)
	reverseOptions(srcNodes)
	reverseOptions(tgtNodes)
	got := Reconcile(pc, srcNodes, tgtNodes)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("results depend on option order (-want +got):\n%s", diff)
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	src := "{count, plural, =0 {none} one {# file} other {# files}}"
	tgt := "{count, plural, one {# Datei} few {# Dateien} other {# Dateien}}"
	p := newPair(src, tgt, "de-DE")
	pc := NewContext(p, nil)
	srcNodes, tgtNodes := mustParse(t, src), mustParse(t, tgt)

	first := Reconcile(pc, srcNodes, tgtNodes)
	second := Reconcile(pc, srcNodes, tgtNodes)
	if len(first) != 2 {
		t.Fatalf("Reconcile() = %+v, want 2 results", first)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second run differs (-first +second):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// Same as source
// ---------------------------------------------------------------------------

func TestSameAsSource_UntranslatedCategory(t *testing.T) {
	src := "There {count, plural, one {is # file} other {are # files}} in the folder."
	tgt := "Es {count, plural, one {is # file} other {gibt # Dateien}} in dem Ordner."
	got := sameAsSource(t, newPair(src, tgt, "de-DE"))
	if len(got) != 1 {
		t.Fatalf("SameAsSource() = %+v, want 1 result", got)
	}
	r := got[0]
	if r.Severity != result.Warning || r.ID != TargetSameAsSource {
		t.Errorf("result = %+v", r)
	}
	if r.Description != "Translation of the category 'one' is the same as the source." {
		t.Errorf("Description = %q", r.Description)
	}
	want := "Es {count, plural, <e0>one {is # file}</e0> other {gibt # Dateien}} in dem Ordner."
	if r.Highlight != want {
		t.Errorf("Highlight = %q, want %q", r.Highlight, want)
	}
	if highlight.Strip(r.Highlight) != tgt {
		t.Errorf("stripped highlight differs from target")
	}
}

func TestSameAsSource_SameLanguageSkipped(t *testing.T) {
	src := "{count, plural, one {# file} other {# files}}"
	p := newPair(src, src, "en-GB")
	if got := sameAsSource(t, p); len(got) != 0 {
		t.Fatalf("SameAsSource() = %+v, want none for en-GB", got)
	}
}

func TestSameAsSource_CaseAndWhitespaceInsensitive(t *testing.T) {
	src := "{count, plural, one {One   file} other {{count, number} files}}"
	tgt := "{count, plural, one { one file } other {{count, number}  FILES}}"
	got := sameAsSource(t, newPair(src, tgt, "fr-FR"))
	if len(got) != 2 {
		t.Fatalf("SameAsSource() = %+v, want 2 results", got)
	}
}

func TestSameAsSource_TargetOnlyCategoryComparesWithOther(t *testing.T) {
	src := "{count, plural, one {# file} other {# files}}"
	tgt := "{count, plural, one {# файл} few {# files} other {# файлов}}"
	got := sameAsSource(t, newPair(src, tgt, "ru-RU"))
	if len(got) != 1 || !strings.Contains(got[0].Description, "'few'") {
		t.Fatalf("SameAsSource() = %+v, want 1 result for few", got)
	}
}

func TestSameAsSource_NestedPreOrder(t *testing.T) {
	src := "{a, plural, one {{b, plural, one {x one} other {x other}} item} other {{b, plural, one {y one} other {y other}} items}}"
	tgt := "{a, plural, one {{b, plural, one {x one} other {x other}} Ding} other {{b, plural, one {y one} other {y other}} Dinge}}"
	got := sameAsSource(t, newPair(src, tgt, "de-DE"))
	want := []string{"one {x one}", "other {x other}", "one {y one}", "other {y other}"}
	if len(got) != len(want) {
		t.Fatalf("SameAsSource() returned %d results, want %d: %+v", len(got), len(want), got)
	}
	for i, r := range got {
		if m := marked(r.Highlight); m != want[i] {
			t.Errorf("result %d highlights %q, want %q", i, m, want[i])
		}
	}
}

func TestSameAsSource_OuterBeforeNested(t *testing.T) {
	src := "{a, plural, one {{b, plural, one {x one} other {x other}} item} other {Dinge}}"
	tgt := "{a, plural, one {{b, plural, one {x one} other {x other}} item} other {Dinge!}}"
	got := sameAsSource(t, newPair(src, tgt, "de-DE"))
	if len(got) != 3 {
		t.Fatalf("SameAsSource() = %+v, want 3 results", got)
	}
	if m := marked(got[0].Highlight); !strings.HasPrefix(m, "one {{b, plural") {
		t.Errorf("first result highlights %q, want the outer category", m)
	}
	if m := marked(got[1].Highlight); m != "one {x one}" {
		t.Errorf("second result highlights %q", m)
	}
}

func TestSameAsSource_InsideTags(t *testing.T) {
	src := "<b>{n, plural, one {# file} other {# files}}</b>"
	tgt := "<b>{n, plural, one {# file} other {# Dateien}}</b>"
	if got := sameAsSource(t, newPair(src, tgt, "de-DE")); len(got) != 1 {
		t.Fatalf("SameAsSource() = %+v, want 1 result", got)
	}
}

func TestSameAsSource_NestedSelectPlaceholder(t *testing.T) {
	src := "{n, plural, one {{g, select, other {a}}} other {{n, selectordinal, other {b}}}}"
	tgt := "{n, plural, one {{g, select, other {x}}} other {{n, selectordinal, other {y}}}}"
	if got := sameAsSource(t, newPair(src, tgt, "de-DE")); len(got) != 2 {
		t.Fatalf("SameAsSource() = %+v, want 2 results, one per placeholder-only outer category", got)
	}
}

func TestNormalize(t *testing.T) {
	nodes := mustParse(t, "  <b>{n, number, integer}</b>\t# {d, date}  {t, time, short} {x} {g, select, other {y}} ")
	// # outside a plural is text; it still renders as '#'.
	want := "<b>{n, number, integer}</b> # {d, date} {t, time, short} {x} {select}"
	if got := normalize(nodes); got != want {
		t.Fatalf("normalize() = %q, want %q", got, want)
	}
}

// ---------------------------------------------------------------------------
// Source checks
// ---------------------------------------------------------------------------

func TestSourceCategories(t *testing.T) {
	t.Run("=1 instead of one", func(t *testing.T) {
		src := "{count, plural, =1 {This is singular} other {This is plural}}"
		pc := NewContext(newPair(src, "", "de-DE"), nil)
		got := checkSourceCategories(pc, mustParse(t, src))
		if len(got) != 1 {
			t.Fatalf("checkSourceCategories() = %+v, want 1 result", got)
		}
		if !strings.HasPrefix(got[0].Description, "Missing required plural category 'one'") {
			t.Errorf("Description = %q", got[0].Description)
		}
		if !strings.Contains(got[0].Description, "'=1'") {
			t.Errorf("Description should name =1: %q", got[0].Description)
		}
		if m := marked(got[0].Highlight); m != "{This is singular}" {
			t.Errorf("highlights %q, want the =1 content", m)
		}
	})

	t.Run("one missing", func(t *testing.T) {
		src := "{count, plural, other {files}}"
		pc := NewContext(newPair(src, "", "de-DE"), nil)
		got := checkSourceCategories(pc, mustParse(t, src))
		if len(got) != 1 || got[0].Description != "Missing required plural category 'one'" {
			t.Fatalf("checkSourceCategories() = %+v", got)
		}
		if m := marked(got[0].Highlight); m != src {
			t.Errorf("highlights %q, want the whole select", m)
		}
	})

	t.Run("japanese source needs no one", func(t *testing.T) {
		src := "{count, plural, other {ファイル}}"
		p := newPair(src, "", "en-US")
		p.SourceLocale = "ja-JP"
		if got := checkSourceCategories(NewContext(p, nil), mustParse(t, src)); len(got) != 0 {
			t.Fatalf("checkSourceCategories() = %+v", got)
		}
	})

	t.Run("selectordinal needs no one", func(t *testing.T) {
		src := "{n, selectordinal, other {#th}}"
		pc := NewContext(newPair(src, "", "de-DE"), nil)
		if got := checkSourceCategories(pc, mustParse(t, src)); len(got) != 0 {
			t.Fatalf("checkSourceCategories() = %+v", got)
		}
	})

	t.Run("nested and select", func(t *testing.T) {
		src := "{g, select, male {{n, plural, other {his}}} other {{n, plural, one {# theirs} other {# theirs}}}}"
		pc := NewContext(newPair(src, "", "de-DE"), nil)
		if got := checkSourceCategories(pc, mustParse(t, src)); len(got) != 1 {
			t.Fatalf("checkSourceCategories() = %+v, want 1 result", got)
		}
	})

	t.Run("missing other", func(t *testing.T) {
		sel := &msgformat.Select{
			Pivot:    "n",
			Kind:     msgformat.KindPlural,
			Options:  []msgformat.Option{{Category: "one"}},
			Location: msgformat.Location{Start: 0, End: 5},
		}
		pc := NewContext(newPair("{...}", "", "de-DE"), nil)
		got := checkSourceCategories(pc, []msgformat.Node{sel})
		if len(got) != 1 || got[0].Description != "Missing required plural category 'other'" {
			t.Fatalf("checkSourceCategories() = %+v", got)
		}
	})
}

func TestSourceParams(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want int
	}{
		{name: "pound in both", src: "{n, plural, one {# file} other {# files}}", want: 0},
		{name: "word instead of pound", src: "{n, plural, one {one file} other {# files}}", want: 1},
		{name: "argument does not match pound", src: "{n, plural, one {{n} file} other {# files}}", want: 1},
		{name: "no parameter in other", src: "{n, plural, one {a file} other {files}}", want: 0},
		{name: "named argument", src: "{n, plural, one {file by {user}} other {files by {user}}}", want: 0},
		{name: "formatted argument", src: "{n, plural, one {{n, number} file} other {{n, number} files}}", want: 0},
		{name: "inside tag", src: "{n, plural, one {<b>#</b> file} other {<b>#</b> files}}", want: 0},
		{name: "no one category", src: "{n, plural, =1 {file} other {# files}}", want: 0},
		{
			name: "nested select is skipped",
			src:  "{n, plural, one {{g, select, male {his} other {their}} file} other {{g, select, male {his} other {their}} # files}}",
			want: 1,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pc := NewContext(newPair(tc.src, "", "de-DE"), nil)
			got := checkSourceParams(pc, mustParse(t, tc.src))
			if len(got) != tc.want {
				t.Fatalf("checkSourceParams() = %+v, want %d results", got, tc.want)
			}
		})
	}

	pc := NewContext(newPair("{n, plural, one {one file} other {# files}}", "", "de-DE"), nil)
	got := checkSourceParams(pc, mustParse(t, "{n, plural, one {one file} other {# files}}"))
	if !strings.Contains(got[0].Description, "#") || got[0].Severity != result.Error {
		t.Errorf("result = %+v", got[0])
	}
}

func TestUnexplainedParams(t *testing.T) {
	src := "{user} has {count, plural, one {# file} other {# files}} in {folder}"
	p := newPair(src, "", "de-DE")
	p.Comment = "USER is the account name; folder: where the files live"

	got := checkUnexplainedParams(NewContext(p, nil), mustParse(t, src))
	if len(got) != 2 {
		t.Fatalf("checkUnexplainedParams() = %+v, want 2 warnings for #", got)
	}
	for _, r := range got {
		if r.Severity != result.Warning || !strings.Contains(r.Description, "'count'") {
			t.Errorf("result = %+v", r)
		}
		if marked(r.Highlight) != "#" {
			t.Errorf("highlight = %q, want the #", r.Highlight)
		}
	}
	if got[0].Highlight == got[1].Highlight {
		t.Error("each occurrence should be highlighted separately")
	}
}

func TestUnexplainedParams_WholeWords(t *testing.T) {
	src := "{name} and {n}"
	p := newPair(src, "", "de-DE")
	p.Comment = "username of the owner; n is the count"
	got := checkUnexplainedParams(NewContext(p, nil), mustParse(t, src))
	if len(got) != 1 || !strings.Contains(got[0].Description, "'name'") {
		t.Fatalf("checkUnexplainedParams() = %+v, want only name", got)
	}
}

func TestUnexplainedParams_InvalidUTF8Name(t *testing.T) {
	src := "{\xff} files"
	p := newPair(src, "", "de-DE")
	p.Comment = "the number of files"
	got := checkUnexplainedParams(NewContext(p, nil), mustParse(t, src))
	if len(got) != 1 || got[0].ID != UnexplainedParams {
		t.Fatalf("checkUnexplainedParams() = %+v, want 1 warning", got)
	}

	// Reached through the checker with markup around it as well.
	New().CheckPair(resource.Pair{Key: "key", SourceLocale: "en-US", Source: "n<{\xff}"})
}

func TestUnexplainedParams_PoundInNestedSelect(t *testing.T) {
	src := "{n, plural, one {{g, select, male {# him} other {# them}}} other {# x}}"
	p := newPair(src, "", "de-DE")
	p.Comment = "g is the gender"
	got := checkUnexplainedParams(NewContext(p, nil), mustParse(t, src))
	if len(got) != 3 {
		t.Fatalf("checkUnexplainedParams() = %+v, want 3", got)
	}
	for _, r := range got {
		if !strings.Contains(r.Description, "'n'") {
			t.Errorf("pound should be attributed to n: %q", r.Description)
		}
	}
}

// ---------------------------------------------------------------------------
// Checker
// ---------------------------------------------------------------------------

func TestCheckPair_SourceSyntaxStopsEverything(t *testing.T) {
	c := New()
	got := c.CheckPair(newPair("{count, plural, one {x}", "{count, plural, other {y}}", "de-DE"))
	if len(got) != 1 || got[0].ID != SourceSyntax || got[0].Severity != result.Error {
		t.Fatalf("CheckPair() = %+v", got)
	}
	if !strings.HasPrefix(got[0].Description, "Incorrect plural or select syntax in source string:") {
		t.Errorf("Description = %q", got[0].Description)
	}
	if !strings.Contains(got[0].Highlight, "<e0>") {
		t.Errorf("Highlight = %q", got[0].Highlight)
	}
}

func TestCheckPair_SyntaxErrorAtEndOfString(t *testing.T) {
	got := New().CheckPair(resource.Pair{Key: "key", SourceLocale: "en-US", Source: "Hello {name,"})
	if len(got) != 1 || got[0].ID != SourceSyntax {
		t.Fatalf("CheckPair() = %+v", got)
	}
	if highlight.Strip(got[0].Highlight) != "Hello {name," {
		t.Errorf("Highlight = %q", got[0].Highlight)
	}

	got = New(WithDisabled(UnexplainedParams)).CheckPair(newPair("Hello {name}", "Hallo {name,", "de-DE"))
	if len(got) != 1 || got[0].ID != TargetSyntax {
		t.Fatalf("CheckPair() = %+v", got)
	}
}

func TestCheckPair_TargetSyntaxStopsComparison(t *testing.T) {
	src := "{count, plural, one {# file} other {# files}}"
	p := newPair(src, "{count, plural, one {# Datei}", "de-DE")
	got := New().CheckPair(p)
	if n := len(byRule(got, TargetSyntax)); n != 1 {
		t.Fatalf("target syntax results = %d, want 1: %+v", n, got)
	}
	if n := len(byRule(got, UnexplainedParams)); n != 2 {
		t.Fatalf("source checks should still run: %+v", got)
	}
	if n := len(byRule(got, TargetCategories)) + len(byRule(got, TargetSameAsSource)); n != 0 {
		t.Fatalf("comparison ran despite target syntax error: %+v", got)
	}
}

func TestCheckPair_Scenarios(t *testing.T) {
	t.Run("untranslated one in german", func(t *testing.T) {
		p := newPair(
			"There {count, plural, one {is # file} other {are # files}} in the folder.",
			"Es {count, plural, one {is # file} other {gibt # Dateien}} in dem Ordner.",
			"de-DE",
		)
		p.Comment = "count is the number of files"
		got := New().CheckPair(p)
		if len(got) != 1 || got[0].ID != TargetSameAsSource {
			t.Fatalf("CheckPair() = %+v", got)
		}
	})

	t.Run("=1 in source and target", func(t *testing.T) {
		p := newPair(
			"{count, plural, =1 {This is singular} other {This is plural}}",
			"{count, plural, =1 {Dies ist Einzahl} other {Dies ist Mehrzahl}}",
			"de-DE",
		)
		got := New().CheckPair(p)
		if len(got) != 1 || got[0].ID != SourceCategories {
			t.Fatalf("CheckPair() = %+v, want only the source category error", got)
		}
	})

	t.Run("no target", func(t *testing.T) {
		p := newPair(singularPlural, "", "de-DE")
		p.HasTarget = false
		if got := New().CheckPair(p); len(got) != 0 {
			t.Fatalf("CheckPair() = %+v", got)
		}
	})
}

func TestCheckPair_DisabledAndSeverity(t *testing.T) {
	src := "{count, plural, one {# file} other {# files}}"
	tgt := "{count, plural, one {# файл} other {# файлов}}"
	p := newPair(src, tgt, "ru-RU")

	c := New(WithDisabled(UnexplainedParams), WithSeverity(TargetCategories, result.Warning))
	got := c.CheckPair(p)
	if len(got) != 1 || got[0].ID != TargetCategories || got[0].Severity != result.Warning {
		t.Fatalf("CheckPair() = %+v", got)
	}
	if c.Enabled(UnexplainedParams) || !c.Enabled(SourceSyntax) {
		t.Error("Enabled() disagrees with WithDisabled")
	}
}

func TestCheckPair_WithoutTags(t *testing.T) {
	p := newPair("Press <Enter> to continue", "Drücken Sie <Enter>", "de-DE")
	if got := New().CheckPair(p); len(byRule(got, SourceSyntax)) != 1 {
		t.Fatalf("expected unclosed tag to fail: %+v", got)
	}
	if got := New(WithoutTags()).CheckPair(p); len(got) != 0 {
		t.Fatalf("CheckPair() without tags = %+v", got)
	}
}

func TestCheckResource(t *testing.T) {
	r := &resource.Resource{
		Kind:         resource.KindArray,
		Key:          "a",
		SourceLocale: "en-US",
		TargetLocale: "ru-RU",
		SourceArray:  []string{"{n, plural, one {# x} other {# xs}}", "plain"},
		TargetArray:  []string{"{n, plural, one {# x} few {# xa} other {# xov}}", "просто"},
		Comment:      "n items",
	}
	got := New().CheckResource(r)
	if len(got) != 1 || got[0].ID != TargetSameAsSource || got[0].Key != "a[0]" {
		t.Fatalf("CheckResource() = %+v", got)
	}
}

func TestRuleIDs(t *testing.T) {
	ids := RuleIDs()
	if len(ids) != 7 {
		t.Fatalf("RuleIDs() = %v", ids)
	}
	for _, id := range ids {
		if !Known(id) || Describe(id) == "" {
			t.Errorf("rule %q has no description", id)
		}
	}
	if Known("no-such-rule") || Describe("no-such-rule") != "" {
		t.Error("unknown rule reported as known")
	}
}

func TestDefaultSeverity(t *testing.T) {
	if DefaultSeverity(UnexplainedParams) != result.Warning || DefaultSeverity(TargetCategories) != result.Error {
		t.Fatal("unexpected default severities")
	}
}
