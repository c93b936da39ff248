/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"chainguard.dev/prreport/report"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"gopkg.in/yaml.v3"
)

type formatter func(io.Writer, *report.Report) error

func formatterFor(name string) (formatter, error) {
	switch strings.ToLower(name) {
	case "json":
		return writeJSON, nil
	case "yaml", "yml":
		return writeYAML, nil
	case "table":
		return writeTable, nil
	default:
		return nil, fmt.Errorf("unknown format %q (expected json, yaml or table)", name)
	}
}

func writeJSON(w io.Writer, r *report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// writeYAML goes through JSON so keys keep their JSON names and order.
func writeYAML(w io.Writer, r *report.Report) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	blockStyle(&doc)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}

func blockStyle(n *yaml.Node) {
	n.Style &^= yaml.FlowStyle
	for _, c := range n.Content {
		blockStyle(c)
	}
}

var gradeColors = map[report.Grade]*color.Color{
	report.GradeA: color.New(color.FgGreen, color.Bold),
	report.GradeB: color.New(color.FgCyan, color.Bold),
	report.GradeC: color.New(color.FgYellow, color.Bold),
	report.GradeD: color.New(color.FgRed, color.Bold),
}

func colorGrade(g report.Grade) string {
	if c, ok := gradeColors[g]; ok {
		return c.Sprint(string(g))
	}
	return string(g)
}

func writeTable(w io.Writer, r *report.Report) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{AutoFormat: tw.Off},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
			MaxWidth: 120,
		}),
		tablewriter.WithHeader([]string{"Item", "Grade", "Report", "Reasoning", "References"}),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{Left: tw.On, Top: tw.Off, Right: tw.On, Bottom: tw.Off},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)

	rows := [][]string{{
		"Description",
		colorGrade(r.DescriptionGrade),
		oneLine(r.DescriptionReport),
		oneLine(r.DescriptionGradeReasoning),
		strings.Join(r.DescriptionReportBookReferences, "; "),
	}}
	for _, c := range r.CommentReports {
		item := fmt.Sprintf("Comment %d", c.CommentID)
		if c.IsAutomated {
			item += " (bot)"
		}
		rows = append(rows, []string{
			item,
			colorGrade(c.CommentGrade),
			oneLine(c.CommentReport),
			oneLine(c.CommentGradeReasoning),
			strings.Join(c.CommentReportBookReferences, "; "),
		})
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
