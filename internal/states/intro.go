package states

import (
	"bufio"
	"errors"
	"os"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	lua "github.com/yuin/gopher-lua"
)

var ErrBadScript = errors.New("malformed intro script")

// Cue changes the intro text when Beat is reached. Add may reference the
// picked intro line pair as {0} and {1}. When the first intro line equals
// When, Alt is added instead of Add.
type Cue struct {
	Beat  int
	Add   string
	Clear bool
	When  string
	Alt   string
}

// IntroScript is the beat-driven intro shown before the title. End is the
// beat the title itself appears on.
type IntroScript struct {
	Cues []Cue
	End  int
}

var DefaultIntroScript = IntroScript{
	Cues: []Cue{
		{Beat: 1, Add: "The"},
		{Beat: 2, Add: "Funkin Crew Inc"},
		{Beat: 3, Add: "presents"},
		{Beat: 4, Clear: true},
		{Beat: 5, Add: "In association"},
		{Beat: 6, Add: "with"},
		{Beat: 7, Add: "Newgrounds"},
		{Beat: 8, Clear: true},
		{Beat: 9, Add: "{0}"},
		{Beat: 11, Add: "{1}"},
		{Beat: 12, Clear: true},
		{Beat: 13, Add: "Friday"},
		{Beat: 14, Add: "Night", When: "trending", Alt: "Nigth"},
		{Beat: 15, Add: "Funkin"},
	},
	End: 16,
}

// Apply runs every cue in (from, to] against text and returns the result.
// Skipped beats still get their cues, in order.
func (s IntroScript) Apply(from, to int, text []string, lines [2]string) []string {
	for _, c := range s.Cues {
		if c.Beat <= from || c.Beat > to {
			continue
		}
		if c.Clear {
			text = text[:0]
		}
		add := c.Add
		if c.When != "" && lines[0] == c.When {
			add = c.Alt
		}
		if add != "" {
			add = strings.NewReplacer("{0}", lines[0], "{1}", lines[1]).Replace(add)
			text = append(text, add)
		}
	}
	return text
}

// LoadIntroScript reads a Lua file that assigns a global table:
//
//	intro = {
//	  end_beat = 16,
//	  cues = { {beat = 1, add = "The"}, {beat = 4, clear = true} },
//	}
func LoadIntroScript(path string) (IntroScript, error) {
	L := lua.NewState()
	defer L.Close()
	if err := L.DoFile(path); err != nil {
		return IntroScript{}, fault.Wrap(err, fmsg.With("run intro script "+path), ftag.With(ftag.InvalidArgument))
	}
	root, ok := L.GetGlobal("intro").(*lua.LTable)
	if !ok {
		return IntroScript{}, badScript(path, "global intro is not a table")
	}
	script := IntroScript{End: DefaultIntroScript.End}
	if n, ok := root.RawGetString("end_beat").(lua.LNumber); ok {
		script.End = int(n)
	}
	cues, ok := root.RawGetString("cues").(*lua.LTable)
	if !ok {
		return IntroScript{}, badScript(path, "intro.cues is not a table")
	}
	for i := 1; i <= cues.Len(); i++ {
		t, ok := cues.RawGetInt(i).(*lua.LTable)
		if !ok {
			return IntroScript{}, badScript(path, "cue is not a table")
		}
		beat, ok := t.RawGetString("beat").(lua.LNumber)
		if !ok {
			return IntroScript{}, badScript(path, "cue without beat")
		}
		script.Cues = append(script.Cues, Cue{
			Beat:  int(beat),
			Add:   luaString(t, "add"),
			Clear: lua.LVAsBool(t.RawGetString("clear")),
			When:  luaString(t, "when"),
			Alt:   luaString(t, "alt"),
		})
	}
	return script, nil
}

func luaString(t *lua.LTable, key string) string {
	if s, ok := t.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

func badScript(path, why string) error {
	return fault.Wrap(ErrBadScript, fmsg.With(path+": "+why), ftag.With(ftag.InvalidArgument))
}

// DefaultIntroLines are used when no intro text file is configured.
var DefaultIntroLines = [][2]string{
	{"shoutouts to tom fulp", "lmao"},
	{"trending", "only on x"},
	{"in loving memory of", "the funky beats"},
	{"astral engine", "now with real timing"},
}

// ReadIntroLines parses a file of "first--second" lines. Lines without the
// separator are skipped.
func ReadIntroLines(path string) ([][2]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("open intro text "+path), ftag.With(ftag.NotFound))
	}
	defer f.Close()
	var out [][2]string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		a, b, ok := strings.Cut(strings.TrimSpace(sc.Text()), "--")
		if !ok {
			continue
		}
		out = append(out, [2]string{a, b})
	}
	if err := sc.Err(); err != nil {
		return nil, fault.Wrap(err, fmsg.With("read intro text "+path))
	}
	if len(out) == 0 {
		return nil, badScript(path, "no intro lines")
	}
	return out, nil
}
