package compare

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/nicoleits/TESIS-SOILING/internal/timenorm"
)

// pBucket classifies a p-value into the conventional reporting tiers.
func pBucket(p float64) string {
	switch {
	case math.IsNaN(p):
		return "n/a"
	case p < 0.001:
		return "p < 0.001"
	case p < 0.01:
		return "p < 0.01"
	case p < 0.05:
		return "p < 0.05"
	default:
		return "ns"
	}
}

// rStrength classifies correlation strength by |r|.
func rStrength(r float64) string {
	abs := math.Abs(r)
	switch {
	case math.IsNaN(r):
		return "n/a"
	case abs >= 0.90:
		return "muy fuerte"
	case abs >= 0.75:
		return "fuerte"
	case abs >= 0.50:
		return "moderada"
	case abs >= 0.25:
		return "débil"
	default:
		return "muy débil"
	}
}

// CorrelationReport renders the narrative pairwise report.
func (c *Comparator) CorrelationReport(pairs []PairResult, generatedAt time.Time) string {
	var b strings.Builder
	b.WriteString("# Correlación entre instrumentos (series semanales normalizadas)\n\n")
	fmt.Fprintf(&b, "Generado: %s\n\n", generatedAt.UTC().Format(timenorm.TimestampLayout))
	fmt.Fprintf(&b, "Nivel de significancia: α = %g. Pearson sobre semanas comunes de cada par; pares con menos de 4 semanas comunes se omiten.\n\n", c.alpha)

	if len(pairs) == 0 {
		b.WriteString("Sin pares con semanas comunes suficientes.\n")
		return b.String()
	}

	b.WriteString("## Pares ordenados por r\n\n")
	b.WriteString("| A | B | n | r | p | nivel | fuerza | bias (pp) | RMSE (pp) |\n")
	b.WriteString("|---|---|---|---|---|-------|--------|-----------|-----------|\n")
	significant := 0
	for _, p := range pairs {
		if p.Significant {
			significant++
		}
		fmt.Fprintf(&b, "| %s | %s | %d | %.4f | %.6f | %s | %s | %.3f | %.3f |\n",
			p.A, p.B, p.N, p.R, p.P, pBucket(p.P), rStrength(p.R), p.BiasPP, p.RMSEPP)
	}

	b.WriteString("\n## Lectura\n\n")
	fmt.Fprintf(&b, "- %d de %d pares con correlación significativa (p < %g).\n",
		significant, len(pairs), c.alpha)
	top := pairs[0]
	fmt.Fprintf(&b, "- Mayor acuerdo: %s y %s (r = %.4f, %s, n = %d).\n",
		top.A, top.B, top.R, rStrength(top.R), top.N)
	if len(pairs) > 1 {
		bottom := pairs[len(pairs)-1]
		fmt.Fprintf(&b, "- Menor acuerdo: %s y %s (r = %.4f, %s, n = %d).\n",
			bottom.A, bottom.B, bottom.R, rStrength(bottom.R), bottom.N)
	}
	return b.String()
}

// GroupReport renders the omnibus-test narrative for every view.
func (c *Comparator) GroupReport(views []GroupTests, generatedAt time.Time) string {
	var b strings.Builder
	b.WriteString("# Comparación global entre instrumentos\n\n")
	fmt.Fprintf(&b, "Generado: %s\n\n", generatedAt.UTC().Format(timenorm.TimestampLayout))
	fmt.Fprintf(&b, "Nivel de significancia: α = %g.\n", c.alpha)

	for _, v := range views {
		fmt.Fprintf(&b, "\n## Vista %s\n\n", v.View)
		if v.Skipped != "" {
			fmt.Fprintf(&b, "Comparación omitida: %s.\n", v.Skipped)
			continue
		}

		b.WriteString("Grupos:")
		for i, g := range v.Groups {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, " %s (n = %d)", g.Name, len(g.Values))
		}
		b.WriteString("\n")
		if len(v.Excluded) > 0 {
			fmt.Fprintf(&b, "Series excluidas por datos insuficientes: %s.\n",
				strings.Join(v.Excluded, ", "))
		}

		b.WriteString("\n### Supuestos\n\n")
		for _, s := range v.Shapiro {
			if math.IsNaN(s.W) {
				fmt.Fprintf(&b, "- Shapiro-Wilk %s: no aplicable (n = %d).\n", s.Group, s.N)
				continue
			}
			verdict := "compatible con normalidad"
			if s.P < c.alpha {
				verdict = "se rechaza normalidad"
			}
			fmt.Fprintf(&b, "- Shapiro-Wilk %s: W = %.4f, %s, %s (n = %d).\n",
				s.Group, s.W, pBucket(s.P), verdict, s.N)
		}
		b.WriteString(outcomeLine("Levene (Brown-Forsythe)", "W", v.Levene,
			"varianzas homogéneas", "varianzas no homogéneas", c.alpha))

		b.WriteString("\n### Pruebas globales\n\n")
		b.WriteString(outcomeLine("ANOVA de una vía", "F", v.ANOVA,
			"sin diferencias de medias detectables", "hay diferencias de medias", c.alpha))
		b.WriteString(outcomeLine("Kruskal-Wallis", "H", v.KW,
			"sin diferencias de distribución detectables", "hay diferencias de distribución", c.alpha))

		b.WriteString("\n### Post-hoc\n\n")
		b.WriteString(posthocTukeyLines(v))
		b.WriteString(posthocDunnLines(v, c.alpha))
	}
	return b.String()
}

func outcomeLine(name, statLabel string, t TestOutcome, accept, reject string, alpha float64) string {
	if t.Reason != "" {
		return fmt.Sprintf("- %s: no computado (%s).\n", name, t.Reason)
	}
	verdict := accept
	if t.P < alpha {
		verdict = reject
	}
	return fmt.Sprintf("- %s: %s = %.4f, %s, %s.\n", name, statLabel, t.Stat, pBucket(t.P), verdict)
}

func posthocTukeyLines(v GroupTests) string {
	if v.TukeyErr != "" {
		return fmt.Sprintf("- Tukey HSD: no computado (%s).\n", v.TukeyErr)
	}
	var sig []string
	for _, p := range v.Tukey {
		if p.Reject {
			sig = append(sig, fmt.Sprintf("%s vs %s (Δ = %.2f pp, p_adj = %.4f)",
				p.GroupA, p.GroupB, p.MeanDiff, p.PAdj))
		}
	}
	if len(sig) == 0 {
		return "- Tukey HSD: sin pares significativos.\n"
	}
	return fmt.Sprintf("- Tukey HSD, pares significativos: %s.\n", strings.Join(sig, "; "))
}

func posthocDunnLines(v GroupTests, alpha float64) string {
	if v.DunnErr != "" {
		return fmt.Sprintf("- Dunn (Bonferroni): no computado (%s).\n", v.DunnErr)
	}
	var sig []string
	for _, p := range v.Dunn {
		if p.PAdj < alpha {
			sig = append(sig, fmt.Sprintf("%s vs %s (z = %.2f, p_adj = %.4f)",
				p.GroupA, p.GroupB, p.Z, p.PAdj))
		}
	}
	if len(sig) == 0 {
		return "- Dunn (Bonferroni): sin pares significativos.\n"
	}
	return fmt.Sprintf("- Dunn (Bonferroni), pares significativos: %s.\n", strings.Join(sig, "; "))
}
