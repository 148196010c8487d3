package script

import (
	"strconv"
	"strings"
)

// ParseBracket parses the line-based bracket grammar. Each non-blank
// line is one directive of the form [NAME arg1 arg2 ...]; trailing
// arguments past a directive's fixed arity join into one free-text
// field. Directive names match case-insensitively. The first non-blank
// line must be the start directive.
func ParseBracket(src string, mode UnknownMode) ([]Command, error) {
	var cmds []Command
	sawStart := false

	for i, raw := range strings.Split(src, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") {
			return nil, formatErrf(lineNo, line, "directive must be enclosed in brackets, e.g. [EMOTION happy 2]")
		}

		fields := strings.Fields(line[1 : len(line)-1])
		if len(fields) == 0 {
			return nil, formatErrf(lineNo, "", "empty directive")
		}
		name := strings.ToLower(fields[0])
		args := fields[1:]

		if !sawStart {
			if name != "start" {
				return nil, formatErrf(lineNo, name, "the first directive must be [START <seconds> [<W>x<H>]]")
			}
			cmd, err := parseStart(lineNo, args)
			if err != nil {
				return nil, err
			}
			cmds = append(cmds, cmd)
			sawStart = true
			continue
		}

		cmd, ok, err := parseDirective(lineNo, name, args)
		if err != nil {
			return nil, err
		}
		if !ok {
			switch mode {
			case UnknownStrict:
				return nil, formatErrf(lineNo, name, "unknown directive")
			case UnknownWarn:
				warnUnknown(name, lineNo)
			}
			continue
		}
		cmds = append(cmds, cmd)
	}

	if !sawStart {
		return nil, formatErrf(0, "start", "script contains no directives; it must begin with [START <seconds> [<W>x<H>]]")
	}

	return cmds, nil
}

func parseStart(line int, args []string) (Command, error) {
	if len(args) < 1 {
		return Command{}, formatErrf(line, "start", "duration not defined, expected [START <seconds> [<W>x<H>]]")
	}
	seconds, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return Command{}, formatErrf(line, "start", "duration %q is not a number", args[0])
	}
	if seconds <= 0 {
		return Command{}, formatErrf(line, "start", "duration must be positive, got %v", seconds)
	}

	cmd := Command{Kind: KindStart, Line: line, Seconds: seconds, Resolution: defaultResolution()}
	if len(args) >= 2 {
		res, err := parseResolution(args[1])
		if err != nil {
			return Command{}, formatErrf(line, "start", "%v", err)
		}
		cmd.Resolution = res
	}
	return cmd, nil
}

// parseDirective handles everything after start. ok is false for an
// unrecognized name.
func parseDirective(line int, name string, args []string) (Command, bool, error) {
	switch name {
	case "start":
		return Command{}, false, formatErrf(line, "start", "start may appear only once, as the first directive")

	case "emotion":
		if len(args) < 2 {
			return Command{}, false, formatErrf(line, "emotion", "expected [EMOTION <name> <seconds>]")
		}
		d, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return Command{}, false, formatErrf(line, "emotion", "duration %q is not a number", args[1])
		}
		return Command{Kind: KindEmotion, Line: line, Emotion: args[0], Duration: d}, true, nil

	case "espeech":
		if len(args) < 3 {
			return Command{}, false, formatErrf(line, "espeech", "expected [ESPEECH <name> auto|<seconds> <text...>]")
		}
		d, auto, err := parseDurationToken(args[1])
		if err != nil {
			return Command{}, false, formatErrf(line, "espeech", "%v", err)
		}
		return Command{
			Kind:     KindESpeech,
			Line:     line,
			Emotion:  args[0],
			Duration: d,
			Auto:     auto,
			Text:     strings.Join(args[2:], " "),
		}, true, nil

	case "textspeech":
		if len(args) < 2 {
			return Command{}, false, formatErrf(line, "textspeech", "expected [TEXTSPEECH auto|<seconds> <text...>]")
		}
		d, auto, err := parseDurationToken(args[0])
		if err != nil {
			return Command{}, false, formatErrf(line, "textspeech", "%v", err)
		}
		return Command{
			Kind:     KindTextSpeech,
			Line:     line,
			Duration: d,
			Auto:     auto,
			Text:     strings.Join(args[1:], " "),
		}, true, nil

	case "insert":
		if len(args) < 1 {
			return Command{}, false, formatErrf(line, "insert", "expected [INSERT <path>]")
		}
		return Command{Kind: KindInsert, Line: line, Path: args[0]}, true, nil

	case "background":
		if len(args) < 1 {
			return Command{}, false, formatErrf(line, "background", "expected [BACKGROUND <color>]")
		}
		return Command{Kind: KindBackground, Line: line, Color: args[0]}, true, nil

	case "end":
		if len(args) < 2 {
			return Command{}, false, formatErrf(line, "end", "expected [END <output_path> <fps>]")
		}
		fps, err := strconv.Atoi(args[1])
		if err != nil || fps <= 0 {
			return Command{}, false, formatErrf(line, "end", "fps %q is not a positive integer", args[1])
		}
		return Command{Kind: KindEnd, Line: line, Output: args[0], FPS: fps}, true, nil
	}

	return Command{}, false, nil
}
