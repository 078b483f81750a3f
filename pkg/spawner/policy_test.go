package spawner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicyString(t *testing.T) {
	tests := []struct {
		policy Policy
		want   string
	}{
		{Never, "never"},
		{Always, "always"},
		{FailOnly, "fail_only"},
		{AskActor, "ask_actor"},
		{Policy(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.policy.String())
	}
}
