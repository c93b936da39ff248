/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package orchestrator runs a tool-calling agent as a three-state machine.

	AGENT  invoke the model with the whole conversation
	TOOLS  answer every tool call of the latest AI message, in order
	END    parse the terminal tool call as the result

AGENT moves to END when the latest AI message has no tool calls or its first
call names the registry's terminal tool; otherwise it moves to TOOLS, which
always returns to AGENT. A terminal call that is not first in its turn gets
a fixed acknowledgement and is never treated as the answer.

Every run is bounded by WithMaxSteps and WithTimeout. Model errors, unknown
tools, failing tools and invalid results end the run; nothing is retried or
repaired here.
*/
package orchestrator
