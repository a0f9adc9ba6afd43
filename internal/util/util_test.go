package util

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecuteCommand_CapturesStdout(t *testing.T) {
	out, err := ExecuteCommand(context.Background(), []string{"echo", "hello"}, nil, nil)

	assert.NoError(t, err)
	assert.Equal(t, "hello\n", out.Stdout)
	assert.Empty(t, out.Stderr)
}

func TestExecuteCommand_WithStdin(t *testing.T) {
	out, err := ExecuteCommand(context.Background(), []string{"cat"}, nil, strings.NewReader("piped"))

	assert.NoError(t, err)
	assert.Equal(t, "piped", out.Stdout)
}

func TestExecuteCommand_WithEnvVars(t *testing.T) {
	out, err := ExecuteCommand(context.Background(), []string{"sh", "-c", "echo $UTIL_TEST_VAR"}, []string{"UTIL_TEST_VAR=set"}, nil)

	assert.NoError(t, err)
	assert.Equal(t, "set\n", out.Stdout)
}

func TestExecuteCommand_EmptyCommand(t *testing.T) {
	_, err := ExecuteCommand(context.Background(), []string{}, nil, nil)

	assert.Error(t, err, "shouldn't be able to execute an empty command")
}

func TestExecuteCommand_MissingBinary(t *testing.T) {
	_, err := ExecuteCommand(context.Background(), []string{"definitely-not-a-binary-9f2c"}, nil, nil)

	assert.Error(t, err)
}
