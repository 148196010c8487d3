package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptvid/scriptvid/internal/config"
)

func TestParseBracketFullScript(t *testing.T) {
	src := "[START 5 1280x720]\n" +
		"\n" +
		"[EMOTION happy 2]\n" +
		"[ESPEECH sad auto I am so sad today]\n" +
		"[TEXTSPEECH 1.5 A caption with several words]\n" +
		"[INSERT clips/intro.mp4]\n" +
		"[BACKGROUND black]\n" +
		"[END out.mp4 24]\n"

	cmds, err := ParseBracket(src, UnknownIgnore)
	require.NoError(t, err)
	require.Len(t, cmds, 7)

	start := cmds[0]
	assert.Equal(t, KindStart, start.Kind)
	assert.Equal(t, 5.0, start.Seconds)
	assert.False(t, start.Provisional)
	assert.Equal(t, config.Resolution{Width: 1280, Height: 720}, start.Resolution)

	emotion := cmds[1]
	assert.Equal(t, KindEmotion, emotion.Kind)
	assert.Equal(t, "happy", emotion.Emotion)
	assert.Equal(t, 2.0, emotion.Duration)

	espeech := cmds[2]
	assert.Equal(t, KindESpeech, espeech.Kind)
	assert.Equal(t, "sad", espeech.Emotion)
	assert.True(t, espeech.Auto)
	assert.Equal(t, "I am so sad today", espeech.Text)

	textspeech := cmds[3]
	assert.Equal(t, KindTextSpeech, textspeech.Kind)
	assert.False(t, textspeech.Auto)
	assert.Equal(t, 1.5, textspeech.Duration)
	assert.Equal(t, "A caption with several words", textspeech.Text)

	insert := cmds[4]
	assert.Equal(t, KindInsert, insert.Kind)
	assert.Equal(t, "clips/intro.mp4", insert.Path)

	background := cmds[5]
	assert.Equal(t, KindBackground, background.Kind)
	assert.Equal(t, "black", background.Color)

	end := cmds[6]
	assert.Equal(t, KindEnd, end.Kind)
	assert.Equal(t, "out.mp4", end.Output)
	assert.Equal(t, 24, end.FPS)
}

func TestParseBracketDefaultResolution(t *testing.T) {
	cmds, err := ParseBracket("[START 3]", UnknownIgnore)
	require.NoError(t, err)
	assert.Equal(t, config.Resolution{Width: 1920, Height: 1080}, cmds[0].Resolution)
}

func TestParseBracketCaseInsensitive(t *testing.T) {
	cmds, err := ParseBracket("[start 3]\n[Emotion happy 2]\n[ESPEECH happy AUTO hi]", UnknownIgnore)
	require.NoError(t, err)
	require.Len(t, cmds, 3)
	assert.Equal(t, KindEmotion, cmds[1].Kind)
	assert.True(t, cmds[2].Auto)
}

func TestParseBracketIdempotent(t *testing.T) {
	src := "[START 3]\n[EMOTION happy 2]\n[ESPEECH sad auto hello there]\n[END out.mp4 24]"
	first, err := ParseBracket(src, UnknownIgnore)
	require.NoError(t, err)
	second, err := ParseBracket(src, UnknownIgnore)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseBracketMissingStart(t *testing.T) {
	_, err := ParseBracket("[EMOTION happy 2]", UnknownIgnore)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, 1, formatErr.Line)
}

func TestParseBracketStartWithoutDuration(t *testing.T) {
	_, err := ParseBracket("[START]\n[EMOTION happy 2]", UnknownIgnore)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Contains(t, formatErr.Error(), "duration")
}

func TestParseBracketNonNumericDuration(t *testing.T) {
	_, err := ParseBracket("[START 3]\n[EMOTION happy fast]", UnknownIgnore)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, 2, formatErr.Line)
}

func TestParseBracketUnclosedDirective(t *testing.T) {
	_, err := ParseBracket("[START 3]\n[EMOTION happy 2", UnknownIgnore)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestParseBracketEmptyScript(t *testing.T) {
	_, err := ParseBracket("\n\n", UnknownIgnore)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestParseBracketSpeechWithoutText(t *testing.T) {
	_, err := ParseBracket("[START 3]\n[ESPEECH happy auto]", UnknownIgnore)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)

	_, err = ParseBracket("[START 3]\n[TEXTSPEECH auto]", UnknownIgnore)
	require.ErrorAs(t, err, &formatErr)
}

func TestParseBracketUnknownDirective(t *testing.T) {
	cmds, err := ParseBracket("[START 3]\n[WIGGLE fast]\n[EMOTION happy 2]", UnknownIgnore)
	require.NoError(t, err)
	require.Len(t, cmds, 2)

	_, err = ParseBracket("[START 3]\n[WIGGLE fast]", UnknownStrict)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "wiggle", formatErr.Directive)
}

func TestParseBracketDuplicateStart(t *testing.T) {
	_, err := ParseBracket("[START 3]\n[START 4]", UnknownIgnore)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestParseBracketBadFPS(t *testing.T) {
	_, err := ParseBracket("[START 3]\n[END out.mp4 fast]", UnknownIgnore)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
}
