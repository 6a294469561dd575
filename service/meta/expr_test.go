package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnvExpr(t *testing.T) {
	testCases := []struct {
		description string
		env         map[string]string
		input       string
		expect      string
	}{
		{description: "no expressions", input: "plain text", expect: "plain text"},
		{description: "single", env: map[string]string{"STRUCTOR_FOO": "bar"}, input: "value is ${env.STRUCTOR_FOO}", expect: "value is bar"},
		{description: "multiple", env: map[string]string{"STRUCTOR_A": "1", "STRUCTOR_B": "2"}, input: "${env.STRUCTOR_A}-${env.STRUCTOR_B}-${env.STRUCTOR_A}", expect: "1-2-1"},
		{description: "unset", input: "unset=${env.STRUCTOR_NOT_SET}-end", expect: "unset=-end"},
		{description: "missing closing brace", input: "start ${env.X and more", expect: "start ${env.X and more"},
		{description: "invalid key keeps prefix", env: map[string]string{"STRUCTOR_Y": "y"}, input: "a ${env.X and ${env.STRUCTOR_Y} b", expect: "a ${env.X and y b"},
		{description: "empty key", input: "oops ${env.} done", expect: "oops  done"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			for k, v := range testCase.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, testCase.expect, expandEnvExpr(testCase.input))
		})
	}
}
