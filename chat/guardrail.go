// Copyright (c) Microsoft. All rights reserved.

package chat

// Guardrails shape the validation-and-transformation steps that can be
// attached to an agent pipeline. They are markers today: the framework
// records them and reports them, but does not yet define a validation
// algorithm. An input guardrail will screen the message sequence before it
// reaches the model; an output guardrail will screen a [Response] or a
// stream of [ResponseUpdate] values before it reaches the caller.

// InputGuardrail marks a step that screens agent input messages.
type InputGuardrail interface {
	// GuardrailName identifies the guardrail in logs and error reports.
	GuardrailName() string
}

// OutputGuardrail marks a step that screens agent output.
type OutputGuardrail interface {
	// GuardrailName identifies the guardrail in logs and error reports.
	GuardrailName() string
}
