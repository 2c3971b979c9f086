package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeLocalOnlyKeyPassesThrough(t *testing.T) {
	local := Tree{"gpt_4o": {"name": "gpt_4o", "model_id": "gpt-4o"}}
	merged := Merge(local, Tree{})

	assert.Equal(t, local["gpt_4o"], merged["gpt_4o"])
}

func TestMergeRemoteOnlyKeyPassesThrough(t *testing.T) {
	remote := Tree{"claude": {"name": "claude", "model_id": "anthropic.claude-3"}}
	merged := Merge(Tree{}, remote)

	assert.Equal(t, remote["claude"], merged["claude"])
}

func TestMergeRemoteFieldsOverrideLocalFieldLevel(t *testing.T) {
	local := Tree{"gpt_4o": {
		"name":        "gpt_4o",
		"model_id":    "gpt-4o",
		"temperature": 0.7,
		"max_tokens":  1024,
	}}
	remote := Tree{"gpt_4o": {
		"temperature": 0.2,
		"description": "patched by deployment",
	}}

	merged := Merge(local, remote)
	entry := merged["gpt_4o"]

	// Fields set in remote win.
	assert.Equal(t, 0.2, entry["temperature"])
	assert.Equal(t, "patched by deployment", entry["description"])
	// Fields absent from remote retain local values.
	assert.Equal(t, "gpt-4o", entry["model_id"])
	assert.Equal(t, 1024, entry["max_tokens"])
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	local := Tree{"m": {"temperature": 0.7}}
	remote := Tree{"m": {"temperature": 0.2}}

	merged := Merge(local, remote)
	require.Equal(t, 0.2, merged["m"]["temperature"])

	assert.Equal(t, 0.7, local["m"]["temperature"])
	assert.Equal(t, 0.2, remote["m"]["temperature"])

	// Nor can mutating the output reach the inputs.
	merged["m"]["temperature"] = 1.9
	assert.Equal(t, 0.7, local["m"]["temperature"])
}
