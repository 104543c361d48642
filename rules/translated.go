package rules

import (
	"strings"

	"github.com/minios-linux/icucheck/highlight"
	"github.com/minios-linux/icucheck/i18n"
	"github.com/minios-linux/icucheck/langmeta"
	"github.com/minios-linux/icucheck/msgformat"
	"github.com/minios-linux/icucheck/msgindex"
	"github.com/minios-linux/icucheck/plurals"
	"github.com/minios-linux/icucheck/result"
)

// SameAsSource warns about plural and select categories whose target text
// is the source text left untranslated. Regional variants of the source
// language (en-GB for en-US) may legitimately reuse it and are skipped.
func SameAsSource(pc *Context, src, tgt []msgformat.Node) []result.Result {
	if langmeta.SameLanguageAndScript(pc.pair.SourceLocale, pc.pair.TargetLocale) {
		return nil
	}
	return sameAsSourceLevel(pc, src, tgt)
}

func sameAsSourceLevel(pc *Context, src, tgt []msgformat.Node) []result.Result {
	srcIdx, tgtIdx := msgindex.Level(src), msgindex.Level(tgt)
	var results []result.Result

	for _, se := range srcIdx.OrderedSelects() {
		te := tgtIdx.Select(se.Key)
		if te == nil {
			continue
		}
		for i := range te.Node.Options {
			to := &te.Node.Options[i]
			so := se.Node.Option(to.Category)
			if so == nil {
				so = se.Node.Option(plurals.Other)
			}
			if so == nil {
				continue
			}

			srcText, tgtText := normalize(so.Value), normalize(to.Value)
			if srcText != "" && strings.EqualFold(srcText, tgtText) {
				results = append(results, pc.targetResult(
					result.Warning,
					TargetSameAsSource,
					i18n.Tf("Translation of the category '%s' is the same as the source.", to.Category),
					highlight.Span(pc.pair.Target, to.Span(), 0),
				))
			}
			results = append(results, sameAsSourceLevel(pc, so.Value, to.Value)...)
		}
	}

	for _, st := range srcIdx.OrderedTags() {
		if tt := tgtIdx.Tag(st.Key); tt != nil {
			results = append(results, sameAsSourceLevel(pc, st.Node.Children, tt.Node.Children)...)
		}
	}
	return results
}

// normalize renders category content for comparison. Arguments keep their
// surface form, nested selects collapse to a placeholder naming their kind,
// and white space is squeezed.
func normalize(nodes []msgformat.Node) string {
	var b strings.Builder
	writeNormalized(&b, nodes)
	return strings.Join(strings.Fields(b.String()), " ")
}

func writeNormalized(b *strings.Builder, nodes []msgformat.Node) {
	for _, n := range nodes {
		switch v := n.(type) {
		case *msgformat.Literal:
			b.WriteString(v.Text)
		case *msgformat.Argument:
			b.WriteString("{" + v.Name + "}")
		case *msgformat.NumberFormat:
			writeFormatted(b, v.Name, "number", v.Style)
		case *msgformat.DateFormat:
			writeFormatted(b, v.Name, "date", v.Style)
		case *msgformat.TimeFormat:
			writeFormatted(b, v.Name, "time", v.Style)
		case *msgformat.Pound:
			b.WriteByte('#')
		case *msgformat.Select:
			b.WriteString("{" + v.Kind.String() + "}")
		case *msgformat.Tag:
			b.WriteString("<" + v.Name + ">")
			writeNormalized(b, v.Children)
			b.WriteString("</" + v.Name + ">")
		}
	}
}

func writeFormatted(b *strings.Builder, name, typ, style string) {
	b.WriteString("{" + name + ", " + typ)
	if style != "" {
		b.WriteString(", " + style)
	}
	b.WriteString("}")
}
