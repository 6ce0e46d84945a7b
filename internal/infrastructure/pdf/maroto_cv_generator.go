// Package pdf implementa la representación gráfica del CV con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre + Título  │  Email / Ubicación              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Por cada categoría: título de sección                       │
//	│    Items: label + company + dateRange, highlights, tech      │
//	│    Skill groups: label + skills con nivel de dominio         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/virtualcv-api/internal/application/usecase"
	"github.com/jhoicas/virtualcv-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 30, Green: 60, Blue: 110}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ usecase.CVPDFGenerator = (*MarotoCVGenerator)(nil)

// MarotoCVGenerator implementa usecase.CVPDFGenerator usando Maroto v2.
type MarotoCVGenerator struct{}

// NewMarotoCVGenerator construye el generador.
func NewMarotoCVGenerator() *MarotoCVGenerator { return &MarotoCVGenerator{} }

// GenerateCVPDF genera el PDF del CV y devuelve sus bytes.
func (g *MarotoCVGenerator) GenerateCVPDF(
	_ context.Context,
	profile *entity.CvNode,
	sections []*usecase.TreeNode,
) ([]byte, error) {
	title := "Curriculum Vitae"
	if profile != nil {
		title = profile.Label
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		Build()

	m := maroto.New(cfg)

	if profile != nil {
		m.AddRows(profileHeaderRow(profile))
		m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))
	}

	for _, section := range sections {
		m.AddRows(sectionRows(section)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// profileHeaderRow: nombre + título (izq) y contacto (der).
func profileHeaderRow(profile *entity.CvNode) core.Row {
	name := attrString(profile, "name")
	if name == "" {
		name = profile.Label
	}

	left := col.New(7).Add(
		text.New(name, props.Text{Style: fontstyle.Bold, Size: 15, Color: colorPrimary, Top: 1}),
		text.New(attrString(profile, "title"), props.Text{Size: 10, Top: 9, Color: colorGray}),
	)

	var contact []string
	if v := attrString(profile, "email"); v != "" {
		contact = append(contact, v)
	}
	if v := attrString(profile, "location"); v != "" {
		contact = append(contact, v)
	}
	right := col.New(5).Add(
		text.New(strings.Join(contact, "  |  "), props.Text{
			Size: 8, Align: align.Right, Top: 3, Color: colorGray,
		}),
		text.New(attrString(profile, "subtitle"), props.Text{
			Size: 8, Align: align.Right, Top: 9, Color: colorGray,
		}),
	)

	return row.New(18).Add(left, right)
}

// sectionRows: título de categoría más sus hijos (items, grupos, skills).
func sectionRows(section *usecase.TreeNode) []core.Row {
	rows := []core.Row{
		row.New(10).Add(col.New(12).Add(
			text.New(strings.ToUpper(section.Node.Label), props.Text{
				Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 3,
			}),
		)),
	}
	for _, child := range section.Children {
		rows = append(rows, nodeRows(child, 0)...)
	}
	return rows
}

// nodeRows: filas de un nodo cualquiera con sangría según profundidad.
func nodeRows(tn *usecase.TreeNode, depth int) []core.Row {
	indent := float64(depth * 4)
	n := tn.Node

	headline := n.Label
	if extra := itemHeadline(n); extra != "" {
		headline += "  -  " + extra
	}
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New(headline, props.Text{Style: fontstyle.Bold, Size: 9, Top: 1, Left: indent}),
		)),
	}

	if n.Description != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(n.Description, props.Text{Size: 8, Top: 1, Left: indent, Color: colorGray}),
		)))
	}
	for _, h := range attrStrings(n, "highlights") {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New("• "+h, props.Text{Size: 8, Top: 1, Left: indent + 3}),
		)))
	}
	if tech := attrStrings(n, "technologies"); len(tech) > 0 {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(strings.Join(tech, " · "), props.Text{
				Size: 7, Top: 1, Left: indent + 3, Color: colorGray,
			}),
		)))
	}

	for _, child := range tn.Children {
		rows = append(rows, nodeRows(child, depth+1)...)
	}
	return rows
}

// itemHeadline: complemento de la cabecera según los atributos del nodo.
func itemHeadline(n *entity.CvNode) string {
	var parts []string
	if v := attrString(n, "company"); v != "" {
		parts = append(parts, v)
	}
	if v := attrString(n, "dateRange"); v != "" {
		parts = append(parts, v)
	}
	if v := attrString(n, "proficiencyLevel"); v != "" {
		parts = append(parts, v)
	}
	return strings.Join(parts, ", ")
}

func attrString(n *entity.CvNode, key string) string {
	if n.Attributes == nil {
		return ""
	}
	s, _ := n.Attributes[key].(string)
	return s
}

// attrStrings tolera tanto []string (creado en memoria) como []any
// (deserializado desde jsonb).
func attrStrings(n *entity.CvNode, key string) []string {
	if n.Attributes == nil {
		return nil
	}
	switch v := n.Attributes[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
