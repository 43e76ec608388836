package batch

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbweber/kickvm/internal/config"
	"github.com/jbweber/kickvm/internal/kickstart"
	"github.com/jbweber/kickvm/internal/virtinstall"
)

var testGlobal = []string{"--iso", "/isos/alma.iso", "--rootpw-plain", "secret", "--dry-run"}

func TestOrchestratorRun(t *testing.T) {
	fragments, err := Expand(strings.NewReader(
		"vm-name,memory,text,network-hostname\n" +
			"vm01,8192,TRUE,vm01.example.com\n" +
			"vm02,2048,FALSE,vm02.example.com\n"))
	require.NoError(t, err)

	mock := &mockProvisioner{}
	var out bytes.Buffer
	o := NewOrchestrator(mock, &out)

	require.NoError(t, o.Run(context.Background(), testGlobal, fragments))

	require.Equal(t, []string{"vm01", "vm02"}, mock.names())
	first, second := mock.runCalls[0], mock.runCalls[1]

	assert.Equal(t, uint(8192), first.VM.MemoryMiB)
	assert.True(t, first.Kickstart.Text)
	assert.Equal(t, "vm01.example.com", first.Kickstart.Network.Hostname)
	assert.True(t, first.Provision.DryRun, "global flags apply to every row")

	assert.Equal(t, uint(2048), second.VM.MemoryMiB)
	assert.False(t, second.Kickstart.Text, "rows do not inherit each other's flags")
	assert.Equal(t, "/isos/alma.iso", second.VM.ISO)
	assert.NotSame(t, first, second)

	assert.Contains(t, out.String(), "#### Creating vm01 ####")
	assert.Contains(t, out.String(), "#### Creating vm02 ####")
	assert.Less(t, strings.Index(out.String(), "vm01"), strings.Index(out.String(), "vm02"))
}

func TestOrchestratorStopsAtFailingRow(t *testing.T) {
	fragments := [][]string{
		{"--vm-name", "vm01"},
		{"--vm-name", "vm02"},
		{"--vm-name", "vm03"},
		{"--vm-name", "vm04"},
	}

	mock := &mockProvisioner{
		runFunc: func(cfg *config.RunConfig) error {
			if cfg.VM.Name == "vm03" {
				return virtinstall.ErrCommandFailed
			}
			return nil
		},
	}
	o := NewOrchestrator(mock, &bytes.Buffer{})

	err := o.Run(context.Background(), testGlobal, fragments)
	require.ErrorIs(t, err, virtinstall.ErrCommandFailed)
	assert.Contains(t, err.Error(), "row 3 (vm03)")
	assert.Equal(t, []string{"vm01", "vm02", "vm03"}, mock.names(), "rows after the failure are never attempted")
}

func TestOrchestratorParseFailureAborts(t *testing.T) {
	fragments := [][]string{
		{"--vm-name", "vm01"},
		{"--vm-name", "vm02", "--rootpw-locked"},
		{"--vm-name", "vm03"},
	}

	mock := &mockProvisioner{}
	o := NewOrchestrator(mock, &bytes.Buffer{})

	err := o.Run(context.Background(), testGlobal, fragments)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "row 2")
	assert.Equal(t, []string{"vm01"}, mock.names())
}

func TestOrchestratorRowOverridesGlobal(t *testing.T) {
	mock := &mockProvisioner{}
	o := NewOrchestrator(mock, &bytes.Buffer{})

	global := append([]string{"--vcpu", "2"}, testGlobal...)
	err := o.Run(context.Background(), global, [][]string{{"--vm-name", "vm01", "--vcpu", "8"}})
	require.NoError(t, err)
	assert.Equal(t, uint(8), mock.runCalls[0].VM.VCPUs)
}

func TestOrchestratorDoesNotMutateGlobal(t *testing.T) {
	global := make([]string, len(testGlobal), len(testGlobal)+10)
	copy(global, testGlobal)

	mock := &mockProvisioner{}
	o := NewOrchestrator(mock, &bytes.Buffer{})
	require.NoError(t, o.Run(context.Background(), global, [][]string{
		{"--vm-name", "vm01"},
		{"--vm-name", "vm02"},
	}))

	assert.Equal(t, testGlobal, global)
	assert.Equal(t, []string{"vm01", "vm02"}, mock.names())
}

func TestOrchestratorEmptyBatch(t *testing.T) {
	mock := &mockProvisioner{}
	o := NewOrchestrator(mock, &bytes.Buffer{})

	require.NoError(t, o.Run(context.Background(), testGlobal, nil))
	assert.Empty(t, mock.runCalls)
}

func TestOrchestratorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mock := &mockProvisioner{
		runFunc: func(*config.RunConfig) error {
			cancel()
			return nil
		},
	}
	o := NewOrchestrator(mock, &bytes.Buffer{})

	err := o.Run(ctx, testGlobal, [][]string{{"--vm-name", "vm01"}, {"--vm-name", "vm02"}})
	require.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, []string{"vm01"}, mock.names())
}

func TestOrchestratorPlan(t *testing.T) {
	mock := &mockProvisioner{}
	o := NewOrchestrator(mock, &bytes.Buffer{})

	cfgs, err := o.Plan(testGlobal, [][]string{
		{"--vm-name", "vm01"},
		{"--vm-name", "vm02", "--memory", "1024"},
	})
	require.NoError(t, err)
	require.Len(t, cfgs, 2)
	assert.Equal(t, "vm02", cfgs[1].VM.Name)
	assert.Equal(t, uint(1024), cfgs[1].VM.MemoryMiB)
	assert.Empty(t, mock.runCalls, "planning never provisions")

	_, err = o.Plan(testGlobal, [][]string{{"--vm-name", "vm01"}, {"--bogus"}})
	require.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "row 2")
}

func TestOrchestratorPlanRejectsRowsGenerateWouldFail(t *testing.T) {
	global := []string{"--iso", "/isos/alma.iso", "--dry-run"}

	tests := []struct {
		name      string
		row       []string
		expectErr error
	}{
		{
			name:      "locked root without user",
			row:       []string{"--vm-name", "a", "--rootpw-locked"},
			expectErr: kickstart.ErrRootLockedWithoutUser,
		},
		{
			name:      "locked root with user outside wheel",
			row:       []string{"--vm-name", "a", "--rootpw-locked", "--username", "bob", "--user-plain", "p"},
			expectErr: kickstart.ErrRootLockedWithoutWheelGroup,
		},
		{
			name:      "username without password",
			row:       []string{"--vm-name", "b", "--rootpw-plain", "p", "--username", "bob"},
			expectErr: kickstart.ErrCredentialNotSet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockProvisioner{}
			o := NewOrchestrator(mock, &bytes.Buffer{})

			cfgs, err := o.Plan(global, [][]string{
				{"--vm-name", "ok", "--rootpw-plain", "p"},
				tt.row,
			})
			require.ErrorIs(t, err, config.ErrInvalidConfig)
			require.ErrorIs(t, err, tt.expectErr)
			assert.Contains(t, err.Error(), "row 2")
			assert.Nil(t, cfgs)
		})
	}
}
