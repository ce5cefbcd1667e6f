package cmd

import (
	"bytes"
	"crypto/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/fairdice/commit"
	"github.com/f3rmion/fairdice/dice"
	"github.com/f3rmion/fairdice/odds"
	"github.com/f3rmion/fairdice/protocol"
)

func execute(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetIn(strings.NewReader(input))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPlay(t *testing.T) {
	// Die 1 is free whoever chooses first, since the computer opens with die 0.
	out, err := execute(t, "1\n1\n0\n0\n", "play", "--rounds", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "--- Round 1 ---")
	assert.Contains(t, out, "(sha3-256=")
	assert.Contains(t, out, "Score: you")
}

func TestPlayQuit(t *testing.T) {
	out, err := execute(t, "x\n", "play")
	require.NoError(t, err)
	assert.Contains(t, out, "Abandoned:")
	assert.Contains(t, out, "Goodbye.")
}

func TestPlayInvalidDice(t *testing.T) {
	_, err := execute(t, "", "play", "1,2,3", "7")
	require.ErrorIs(t, err, dice.ErrInvalidDie)
	assert.Contains(t, err.Error(), "configuration error")

	_, err = execute(t, "", "play", "1,2,3")
	assert.ErrorIs(t, err, dice.ErrInvalidDie)

	_, err = execute(t, "", "play", "--preset", "loaded")
	assert.ErrorIs(t, err, dice.ErrInvalidDie)
}

func TestInvalidConfig(t *testing.T) {
	_, err := execute(t, "", "table", "--algorithm", "md5")
	assert.ErrorIs(t, err, commit.ErrUnknownAlgorithm)

	_, err = execute(t, "", "play", "--rounds", "0")
	assert.ErrorContains(t, err, "rounds")

	t.Setenv("FAIRDICE_SECRET_SIZE", "8")
	_, err = execute(t, "", "table")
	assert.ErrorContains(t, err, "secret_size")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	set := filepath.Join(dir, "dice.yaml")
	require.NoError(t, os.WriteFile(set, []byte("name: pair\ndice:\n  - 1,2\n  - 3,4\n"), 0o600))
	cfg := filepath.Join(dir, "fairdice.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("dice_file: "+set+"\n"), 0o600))

	out, err := execute(t, "", "table", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Dice set pair")
	assert.Contains(t, out, "0.0000 (0/4)")
	assert.Contains(t, out, "1.0000 (4/4)")

	_, err = execute(t, "", "table", "--config", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestTable(t *testing.T) {
	out, err := execute(t, "", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "Dice set nontransitive")
	assert.Contains(t, out, "0.5556 (20/36)")
	assert.Contains(t, out, "Non-transitive:")
	assert.NotContains(t, out, "Sum of one throw")

	out, err = execute(t, "", "table", "--preset", "standard", "--sums")
	require.NoError(t, err)
	assert.Contains(t, out, "Sum of one throw")
	assert.Contains(t, out, "1/1296")

	many := make([]string, 0, 26)
	many = append(many, "table", "--sums")
	for i := 0; i < 25; i++ {
		many = append(many, "0,0,0,0,0,0")
	}
	_, err = execute(t, "", many...)
	assert.ErrorIs(t, err, odds.ErrTooManyOutcomes)
}

func commitValue(t *testing.T, alg string, n int) (commit.Opening, commit.Commitment) {
	t.Helper()
	h, err := commit.Lookup(alg)
	require.NoError(t, err)
	c := commit.NewCommitter(rand.Reader, h)
	_, cm, err := c.Commit(n)
	require.NoError(t, err)
	o, err := c.Reveal()
	require.NoError(t, err)
	return o, cm
}

func TestVerify(t *testing.T) {
	o, cm := commitValue(t, commit.AlgSHA256, 6)
	base := []string{"verify", "--alg", commit.AlgSHA256, "--secret", o.Secret.String(), "--commitment", cm.String()}
	value := strconv.Itoa(o.Value)

	out, err := execute(t, "", append(base, "--value", value)...)
	require.NoError(t, err)
	assert.Contains(t, out, "OK: sha256 commitment matches value "+value)

	want := protocol.Additive.Combine(o.Value, 4, 6)
	out, err = execute(t, "", append(base, "--value", value, "--range", "6", "--peer", "-2", "--result", strconv.Itoa(want))...)
	require.NoError(t, err)
	assert.Contains(t, out, "OK: result "+strconv.Itoa(want))

	wrong := strconv.Itoa((want + 1) % 6)
	_, err = execute(t, "", append(base, "--value", value, "--range", "6", "--peer", "4", "--result", wrong)...)
	assert.ErrorIs(t, err, protocol.ErrVerification)

	_, err = execute(t, "", append(base, "--value", strconv.Itoa(o.Value+1))...)
	assert.ErrorIs(t, err, protocol.ErrVerification)

	_, err = execute(t, "", "verify", "--alg", commit.AlgSHA3256, "--secret", o.Secret.String(), "--commitment", cm.String(), "--value", value)
	assert.ErrorIs(t, err, protocol.ErrVerification)

	// A secret with a byte added or removed never opens the commitment.
	_, err = execute(t, "", "verify", "--alg", commit.AlgSHA256, "--secret", o.Secret.String()+"31",
		"--commitment", cm.String(), "--value", value)
	assert.ErrorIs(t, err, protocol.ErrVerification)

	_, err = execute(t, "", "verify", "--alg", commit.AlgSHA256, "--secret", o.Secret.String()[2:],
		"--commitment", cm.String(), "--value", value)
	assert.ErrorIs(t, err, protocol.ErrVerification)

	_, err = execute(t, "", append(base, "--value", value, "--range", "1")...)
	assert.ErrorIs(t, err, commit.ErrInvalidRange)
}

func TestVerifyDefaultAlgorithm(t *testing.T) {
	o, cm := commitValue(t, commit.AlgBlake2b256, 2)
	t.Setenv("FAIRDICE_ALGORITHM", commit.AlgBlake2b256)

	out, err := execute(t, "", "verify", "--secret", o.Secret.String(), "--commitment", cm.String(),
		"--value", strconv.Itoa(o.Value), "--range", "2", "--rule", protocol.RuleGuessMatch, "--peer", strconv.Itoa(o.Value))
	require.NoError(t, err)
	assert.Contains(t, out, "OK: result 1")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "fairdice dev")
	assert.Contains(t, out, commit.AlgMiMCBN254)
}
