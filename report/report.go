/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package report generates the code-review quality report for a pull
// request.
package report

// Grade rates a description or comment.
type Grade string

const (
	// GradeA is great.
	GradeA Grade = "A"
	// GradeB is okay but can be improved.
	GradeB Grade = "B"
	// GradeC needs improvement to be valuable.
	GradeC Grade = "C"
	// GradeD has problematic content or tone.
	GradeD Grade = "D"
)

// Report is the structured result the agent submits. Presence of every
// field is enforced by submitresult.Parse from the jsonschema tags; the
// validate tags only add the grade enum.
type Report struct {
	_ struct{} `json:"-" submitresult:"name=Response,description=Always respond to the user using this tool."`

	DescriptionReport               string          `json:"descriptionReport" jsonschema:"required,description=A report about the PR description. Should answer questions such as: is it complete? does it contain the necessary context? does the tone invite to review the PR?"`
	DescriptionReportBookReferences []string        `json:"descriptionReportBookReferences" jsonschema:"required,description=Chapters referenced in the description report."`
	DescriptionGrade                Grade           `json:"descriptionGrade" jsonschema:"required,enum=A,enum=B,enum=C,enum=D,description=A if this description is great. B if it is okay but can be improved. C if it needs improvement to be valuable. D if its content or tone is problematic." validate:"oneof=A B C D"`
	DescriptionGradeReasoning       string          `json:"descriptionGradeReasoning" jsonschema:"required,description=Detail your reasoning for assigning this grade."`
	CommentReports                  []CommentReport `json:"commentReports" jsonschema:"required,description=Reports about each PR comment." validate:"dive"`
}

// CommentReport rates one comment.
type CommentReport struct {
	CommentID                   int64    `json:"commentId" jsonschema:"required,description=The ID of the comment."`
	IsAutomated                 bool     `json:"isAutomated" jsonschema:"required,description=Whether the comment is automated (posted by a bot)."`
	CommentReport               string   `json:"commentReport" jsonschema:"required,description=A report about the comment. Should answer questions such as: does it offer constructive feedback? does it foster valuable conversation? is the tone nice?"`
	CommentReportBookReferences []string `json:"commentReportBookReferences" jsonschema:"required,description=Chapters referenced in the comment report."`
	CommentGrade                Grade    `json:"commentGrade" jsonschema:"required,enum=A,enum=B,enum=C,enum=D,description=A if it is great. B if it is okay but can be improved. C if it needs improvement to be valuable. D if its content or tone is problematic." validate:"oneof=A B C D"`
	CommentGradeReasoning       string   `json:"commentGradeReasoning" jsonschema:"required,description=Detail your reasoning for assigning this grade."`
}
