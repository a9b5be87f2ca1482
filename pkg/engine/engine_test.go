package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitchkit/natded/internal/alphabet"
	"github.com/fitchkit/natded/internal/dnerr"
)

func mustProve(t *testing.T, wffs ...string) Result {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := Prove(ctx, wffs)
	require.NoError(t, err)
	return res
}

func TestProveModusPonens(t *testing.T) {
	res := mustProve(t, "A", "A"+alphabet.Then+"B", "B")
	require.True(t, res.Proved)
	last := res.Proof[len(res.Proof)-1]
	assert.Equal(t, "B", last.Formula.String())
	assert.Equal(t, alphabet.Then+"E", last.Rule)
	assert.Len(t, res.Simplified, 3)
}

func TestProveConjunctionCommutes(t *testing.T) {
	res := mustProve(t, "A"+alphabet.And+"B", "B"+alphabet.And+"A")
	require.True(t, res.Proved)
	last := res.Simplified[len(res.Simplified)-1]
	assert.Equal(t, "B"+alphabet.And+"A", last.Formula.String())
	assert.Equal(t, alphabet.And+"I", last.Rule)
}

func TestProveProofByCasesIsOneOrElim(t *testing.T) {
	res := mustProve(t, "A"+alphabet.Or+"B", "A"+alphabet.Then+"C", "B"+alphabet.Then+"C", "C")
	require.True(t, res.Proved)

	orElims := 0
	for _, ln := range res.Simplified {
		if ln.Rule == alphabet.Or+"E" {
			orElims++
		}
	}
	assert.Equal(t, 1, orElims)
	last := res.Simplified[len(res.Simplified)-1]
	assert.Equal(t, "C", last.Formula.String())
}

func TestProvePeircesLawIsNotDerivable(t *testing.T) {
	peirce := "((A" + alphabet.Then + "B)" + alphabet.Then + "A)" + alphabet.Then + "A"
	res := mustProve(t, peirce)
	assert.False(t, res.Proved)
	if len(res.Proof) > 0 {
		last := res.Proof[len(res.Proof)-1]
		assert.NotEqual(t, peirce, last.Formula.String())
	}
}

func TestProveModalInterplay(t *testing.T) {
	res := mustProve(t, alphabet.Poss+"A"+alphabet.Then+alphabet.Nec+"B", alphabet.Nec+"(A"+alphabet.Then+"B)")
	require.True(t, res.Proved)
	last := res.Simplified[len(res.Simplified)-1]
	assert.Equal(t, alphabet.Nec+"(A"+alphabet.Then+"B)", last.Formula.String())
}

func TestProveUniversalInstantiation(t *testing.T) {
	res := mustProve(t,
		alphabet.All+"x(P«x»"+alphabet.Then+"Q«x»)",
		"P«a»",
		"Q«a»",
	)
	require.True(t, res.Proved)

	sawAllElim := false
	for _, ln := range res.Simplified {
		if ln.Rule == alphabet.All+"E" && ln.Formula.String() == "P«a»"+alphabet.Then+"Q«a»" {
			sawAllElim = true
		}
	}
	assert.True(t, sawAllElim)
	last := res.Simplified[len(res.Simplified)-1]
	assert.Equal(t, "Q«a»", last.Formula.String())
	assert.Equal(t, alphabet.Then+"E", last.Rule)
}

func TestProveReflexiveIdentity(t *testing.T) {
	res := mustProve(t, "a"+alphabet.Eq+"a")
	require.True(t, res.Proved)
	assert.Len(t, res.Proof, 1)
	assert.Equal(t, alphabet.Eq+"I", res.Proof[0].Rule)
}

func TestInitProofAcceptsAsciiAliases(t *testing.T) {
	goals, proof, err := InitProof([]string{"A", "A->B", "B"})
	require.NoError(t, err)
	require.Len(t, proof, 2)
	assert.Equal(t, "A"+alphabet.Then+"B", proof[1].Formula.String())
	assert.NotEmpty(t, goals)
}

func TestInitProofOnEmptyInputIsNotAnError(t *testing.T) {
	goals, proof, err := InitProof(nil)
	require.NoError(t, err)
	assert.Nil(t, goals)
	assert.Nil(t, proof)
}

func TestInitProofRejectsMalformedFormula(t *testing.T) {
	_, _, err := InitProof([]string{"A" + alphabet.And})
	require.Error(t, err)
}

// TestInitProofReportsExhaustedPool confirms a goal needing more fresh
// item constants than the alphabet has (one nested universal per item
// constant, plus one more) surfaces dnerr.ExhaustedPool through
// InitProof rather than panicking.
func TestInitProofReportsExhaustedPool(t *testing.T) {
	deep := strings.Repeat(alphabet.All+"u", len(alphabet.ItemConsts)+1) +
		"A" + alphabet.LQuote + "u" + alphabet.RQuote
	_, _, err := InitProof([]string{"A" + alphabet.LQuote + "a" + alphabet.RQuote, deep})
	require.Error(t, err)
	assert.True(t, dnerr.Is(err, dnerr.ExhaustedPool))
}

func TestProveHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	peirce := "((A" + alphabet.Then + "B)" + alphabet.Then + "A)" + alphabet.Then + "A"
	res, err := Prove(ctx, []string{peirce})
	require.Error(t, err)
	assert.False(t, res.Proved)
}
