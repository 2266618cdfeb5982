package term

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scripted struct {
	keys []rune
}

func (s *scripted) WriteLine(string) error { return nil }

func (s *scripted) ReadKey() (rune, error) {
	if len(s.keys) == 0 {
		return 0, io.EOF
	}
	k := s.keys[0]
	s.keys = s.keys[1:]
	return k, nil
}

func TestReadDecisionMapping(t *testing.T) {
	cases := []struct {
		key  rune
		want Decision
	}{
		{'y', DecisionConfirm},
		{'Y', DecisionConfirm},
		{'\r', DecisionConfirm},
		{'\n', DecisionConfirm},
		{'n', DecisionSkip},
		{'N', DecisionSkip},
		{'a', DecisionAbort},
		{'A', DecisionAbort},
		{keyEscape, DecisionAbort},
	}
	for _, tc := range cases {
		d, err := ReadDecision(&scripted{keys: []rune{tc.key}})
		require.NoError(t, err, string(tc.key))
		assert.Equal(t, tc.want, d, string(tc.key))
	}
}

func TestReadDecisionSkipsUnmappedKeys(t *testing.T) {
	d, err := ReadDecision(&scripted{keys: []rune{'x', '?', 'n'}})
	require.NoError(t, err)
	assert.Equal(t, DecisionSkip, d)
}

func TestReadDecisionPropagatesReadError(t *testing.T) {
	_, err := ReadDecision(&scripted{})
	assert.ErrorIs(t, err, io.EOF)
}
