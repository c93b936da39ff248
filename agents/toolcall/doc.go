/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package toolcall defines tools once, independently of any model provider.
//
// A Tool is a Definition (name, description, JSON-schema parameters) plus
// either a Handler or the Terminal flag. Terminal tools end a run: the
// orchestrator never executes them, it reads their arguments as the result.
//
// Tools are collected in a Registry, which is fixed for the lifetime of a
// run and shared by every provider adapter:
//
//	retrieve, err := retrievaltool.New[*report.Report](store)
//	...
//	respond, err := submitresult.ToolForResponse[*report.Report]()
//	...
//	reg, err := toolcall.NewRegistry(retrieve, respond)
//
// Provider packages (openaimodel, claudemodel, googlemodel) convert
// Definitions into their SDK's tool declarations.
package toolcall
