package lemma

import "strings"

type rule struct{ suffix, repl string }

// detachment rules per part of speech, tried in order
var rules = map[POS][]rule{
	Noun: {
		{"s", ""}, {"ses", "s"}, {"xes", "x"}, {"zes", "z"},
		{"ches", "ch"}, {"shes", "sh"}, {"men", "man"}, {"ies", "y"},
	},
	Verb: {
		{"s", ""}, {"ies", "y"}, {"es", "e"}, {"es", ""},
		{"ed", "e"}, {"ed", ""}, {"ing", "e"}, {"ing", ""},
	},
	Adj: {
		{"er", ""}, {"est", ""}, {"er", "e"}, {"est", "e"},
	},
}

// detach applies every matching rule to every form once; a verb stem left
// with a doubled final consonant ("runn", "stopp") also yields the undoubled stem
func detach(forms []string, pos POS) []string {
	var out []string
	for _, f := range forms {
		for _, r := range rules[pos] {
			if !strings.HasSuffix(f, r.suffix) {
				continue
			}
			stem := f[:len(f)-len(r.suffix)]
			out = append(out, stem+r.repl)
			if pos == Verb && r.repl == "" && (r.suffix == "ed" || r.suffix == "ing") && doubled(stem) {
				out = append(out, stem[:len(stem)-1])
			}
		}
	}
	return out
}

func doubled(s string) bool {
	n := len(s)
	if n < 3 || s[n-1] != s[n-2] {
		return false
	}
	switch s[n-1] {
	case 'a', 'e', 'i', 'o', 'u', 'l', 's', 'z':
		return false
	}
	return true
}

// exceptions lists irregular forms; an entry short-circuits the rules
var exceptions = map[POS]map[string][]string{
	Noun: {
		"children": {"child"}, "women": {"woman"}, "men": {"man"},
		"feet": {"foot"}, "teeth": {"tooth"}, "mice": {"mouse"}, "geese": {"goose"},
		"lives": {"life"}, "wives": {"wife"}, "knives": {"knife"}, "leaves": {"leaf"},
		"wolves": {"wolf"}, "halves": {"half"}, "shelves": {"shelf"}, "thieves": {"thief"},
		"loaves": {"loaf"}, "selves": {"self"}, "calves": {"calf"},
		"crises": {"crisis"}, "analyses": {"analysis"}, "bases": {"basis", "base"},
		"criteria": {"criterion"}, "phenomena": {"phenomenon"}, "data": {"datum"},
		"media": {"medium"}, "indices": {"index"}, "oases": {"oasis"},
	},
	Verb: {
		"am": {"be"}, "is": {"be"}, "are": {"be"}, "was": {"be"}, "were": {"be"}, "been": {"be"},
		"has": {"have"}, "had": {"have"}, "does": {"do"}, "did": {"do"}, "done": {"do"},
		"went": {"go"}, "gone": {"go"}, "goes": {"go"}, "ran": {"run"}, "came": {"come"},
		"got": {"get"}, "gotten": {"get"}, "made": {"make"}, "said": {"say"},
		"took": {"take"}, "taken": {"take"}, "gave": {"give"}, "given": {"give"},
		"saw": {"see"}, "seen": {"see"}, "knew": {"know"}, "known": {"know"},
		"left": {"leave"}, "lost": {"lose"}, "fell": {"fall"}, "fallen": {"fall"},
		"felt": {"feel"}, "found": {"find"}, "built": {"build"}, "brought": {"bring"},
		"bought": {"buy"}, "sent": {"send"}, "spent": {"spend"}, "kept": {"keep"},
		"held": {"hold"}, "stood": {"stand"}, "began": {"begin"}, "begun": {"begin"},
		"broke": {"break"}, "broken": {"break"}, "ate": {"eat"}, "eaten": {"eat"},
		"drank": {"drink"}, "drunk": {"drink"}, "drove": {"drive"}, "driven": {"drive"},
		"flew": {"fly"}, "flown": {"fly"}, "froze": {"freeze"}, "frozen": {"freeze"},
		"grew": {"grow"}, "grown": {"grow"}, "hid": {"hide"}, "hidden": {"hide"},
		"rose": {"rise"}, "risen": {"rise"}, "shook": {"shake"}, "shaken": {"shake"},
		"spoke": {"speak"}, "spoken": {"speak"}, "struck": {"strike"}, "swept": {"sweep"},
		"threw": {"throw"}, "thrown": {"throw"}, "woke": {"wake"}, "wore": {"wear"},
		"worn": {"wear"}, "wrote": {"write"}, "written": {"write"}, "fought": {"fight"},
		"caught": {"catch"}, "taught": {"teach"}, "thought": {"think"}, "told": {"tell"},
		"sold": {"sell"}, "paid": {"pay"}, "met": {"meet"}, "led": {"lead"}, "fed": {"feed"},
		"fled": {"flee"}, "slept": {"sleep"}, "dying": {"die"}, "lying": {"lie"}, "tying": {"tie"},
	},
	Adj: {
		"better": {"good"}, "best": {"good"}, "worse": {"bad"}, "worst": {"bad"},
		"further": {"far"}, "farther": {"far"}, "furthest": {"far"}, "farthest": {"far"},
		"elder": {"old"}, "eldest": {"old"}, "less": {"little"}, "least": {"little"},
	},
	Adv: {
		"better": {"well"}, "best": {"well"}, "further": {"far"}, "farther": {"far"},
		"harder": {"hard"}, "hardest": {"hard"},
	},
}
