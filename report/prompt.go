/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"chainguard.dev/prreport/cache"
	"chainguard.dev/prreport/pullrequest"
)

// Instructions seed every report run.
const Instructions = `You are a Staff Developer responsible for code review evaluations.
You will receive the pull request (PR) description and a list of
comments on the PR, and you're expected to write a report
of the code review itself.

You *must* use the book Pull Requests and Code Review to know the
best practices. It is very generic, no need to try to get information
about this specific pull request.`

const noDescription = "(no description)"

// FormatPrompt renders the pull request as the agent's input. Issue comments
// come before review comments, each sorted by ID. Comments without an
// author or body are left out.
func FormatPrompt(pr *pullrequest.PullRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Pull Request: '%s' by @%s\n", pr.Title, pr.Author)
	body := quote(pr.Body)
	if body == "" {
		body = quote(noDescription)
	}
	sb.WriteString(body)
	sb.WriteString("\n")

	for _, c := range byID(pr.IssueComments) {
		writeComment(&sb, c)
	}
	for _, c := range byID(pr.ReviewComments) {
		writeComment(&sb, c)
	}
	return sb.String()
}

// CacheKey identifies the report for pr by the content it is generated from.
func CacheKey(pr *pullrequest.PullRequest) []string {
	return []string{"generatePullRequestReport", cache.Hash(FormatPrompt(pr))}
}

func writeComment(sb *strings.Builder, c pullrequest.Comment) {
	body := quote(c.Body)
	if c.Author == "" || body == "" {
		return
	}
	if c.InReplyTo != 0 {
		fmt.Fprintf(sb, "Comment by @%s (ID: %d, in reply to %d):\n", c.Author, c.ID, c.InReplyTo)
	} else {
		fmt.Fprintf(sb, "Comment by @%s (ID: %d):\n", c.Author, c.ID)
	}
	sb.WriteString(body)
	sb.WriteString("\n")
}

// quote prefixes every line of the trimmed text with "> ", ending with a
// newline. Blank text quotes to "".
func quote(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return ""
	}
	var sb strings.Builder
	for line := range strings.SplitSeq(text, "\n") {
		sb.WriteString("> ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

func byID(comments []pullrequest.Comment) []pullrequest.Comment {
	return slices.SortedStableFunc(slices.Values(comments), func(a, b pullrequest.Comment) int {
		return cmp.Compare(a.ID, b.ID)
	})
}
