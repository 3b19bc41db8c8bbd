package oracle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractSection(t *testing.T) {
	out := "ADVICE: lowkey commit mid, force the rune fight.\nNEW GAME STATE: time 12:40; enemy mid missing\n"
	require.Equal(t, "lowkey commit mid, force the rune fight.", ExtractSection(out, "ADVICE"))
	require.Equal(t, "time 12:40; enemy mid missing", ExtractSection(out, "NEW GAME STATE"))
}

func TestExtractSectionMultiline(t *testing.T) {
	out := "ADVICE: push top now.\nAlso ward the river.\nNEW GAME STATE: none"
	require.Equal(t, "push top now.\nAlso ward the river.", ExtractSection(out, "ADVICE"))
	require.Equal(t, "none", ExtractSection(out, "NEW GAME STATE"))
}

func TestExtractSectionMissingLabel(t *testing.T) {
	require.Empty(t, ExtractSection("just prose, no labels", "ADVICE"))
}

func TestExtractSectionIsCaseSensitive(t *testing.T) {
	require.Empty(t, ExtractSection("advice: lowercase label", "ADVICE"))
}

func TestExtractSectionRunsToEnd(t *testing.T) {
	out := "NEW GAME STATE: time 30:00\nboth teams grouped"
	require.Equal(t, "time 30:00\nboth teams grouped", ExtractSection(out, "NEW GAME STATE"))
}

func TestExtractSectionIgnoresProseColons(t *testing.T) {
	out := "ADVICE: buy bkb: it wins the fight\ntimings like 20:00 matter\nNEW GAME STATE: none"
	require.Equal(t, "buy bkb: it wins the fight\ntimings like 20:00 matter", ExtractSection(out, "ADVICE"))
}

func TestParseResponseFallsBackToWholeText(t *testing.T) {
	advice, state := ParseResponse("  group as five and end it now  ")
	require.Equal(t, "group as five and end it now", advice)
	require.Empty(t, state)
}

func TestParseResponseBothSections(t *testing.T) {
	advice, state := ParseResponse("ADVICE: smoke and take roshan.\nNEW GAME STATE: aegis up at 28:10")
	require.Equal(t, "smoke and take roshan.", advice)
	require.Equal(t, "aegis up at 28:10", state)
}

func TestBuildPromptLayout(t *testing.T) {
	p := BuildPrompt([]string{"host=aabbccddeeff ts=1.000000 file=a.png"}, "time 5:00")
	require.Contains(t, p, PromptTemplate)
	require.Contains(t, p, "Multiplayer host screenshots:\nhost=aabbccddeeff ts=1.000000 file=a.png")
	require.Contains(t, p, "Known game state:\ntime 5:00\n")
}
