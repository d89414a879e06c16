package advisor

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonas_MatchSystemPrompt(t *testing.T) {
	require.Len(t, Personas, 4)

	for _, p := range Personas {
		line := fmt.Sprintf("- %s (%s): Focus on %s", p.Name, p.Focus, p.Description)
		assert.Contains(t, SystemPrompt, line)
	}
}

func TestSystemPrompt_Shape(t *testing.T) {
	assert.True(t, strings.HasPrefix(SystemPrompt, "You are Advisory Board, a panel of 4 leadership coaches:\n"))
	assert.True(t, strings.HasSuffix(SystemPrompt, "in a structured format."))
	assert.Equal(t, 7, len(strings.Split(SystemPrompt, "\n")))
}
