package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"q.log/mincover/instance"
)

func TestRunExample(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"-workers", "2", "instance/testdata/example.txt"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Regexp(t, `^part1: 7 after \S+\npart2: 33 after \S+\n$`, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunVerboseJSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"-v", "-json", "-lifo", "instance/testdata/example.txt"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "part2: 33")
	assert.Contains(t, stderr.String(), `"msg":"solved"`)
	assert.Contains(t, stderr.String(), `"file":"instance/testdata/example.txt"`)
}

func TestRunErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Error(t, run(nil, &stdout, &stderr))
	assert.Error(t, run([]string{"-max-nodes", "-1", "x"}, &stdout, &stderr))
	assert.Error(t, run([]string{"instance/testdata/missing.txt"}, &stdout, &stderr))
	assert.Error(t, run([]string{"-mps", "instance/mps/testdata/leq.mps"}, &stdout, &stderr))
}

func TestFewestToggles(t *testing.T) {
	machines, err := instance.NewReader("instance/testdata/example.txt").ReadMachines()
	require.NoError(t, err)
	n, err := fewestToggles(machines)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = fewestToggles([]*instance.Machine{{Lights: 1, Indicator: 1}})
	assert.Error(t, err)
}
