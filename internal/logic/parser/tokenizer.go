package parser

import (
	"fmt"
	"sort"
	"strings"
)

// Prefix marks the start of an argument value, e.g. "n/" in "n/John Doe".
type Prefix string

const (
	PrefixName              Prefix = "n/"
	PrefixPhone             Prefix = "p/"
	PrefixEmail             Prefix = "e/"
	PrefixAddress           Prefix = "a/"
	PrefixTag               Prefix = "t/"
	PrefixTelegram          Prefix = "tg/"
	PrefixRemark            Prefix = "r/"
	PrefixPatientName       Prefix = "pn/"
	PrefixPatientPhone      Prefix = "pp/"
	PrefixDoctorName        Prefix = "dn/"
	PrefixDoctorPhone       Prefix = "dp/"
	PrefixDateTime          Prefix = "dt/"
	PrefixComments          Prefix = "cm/"
	PrefixMedicineName      Prefix = "m/"
	PrefixDosage            Prefix = "d/"
	PrefixConsumptionPerDay Prefix = "c/"
	PrefixAllergy           Prefix = "al/"
	PrefixCondition         Prefix = "co/"
)

// ArgumentMultimap maps each prefix to the values that followed it, in the
// order they appeared.
type ArgumentMultimap struct {
	preamble string
	values   map[Prefix][]string
}

func (a ArgumentMultimap) Preamble() string { return a.preamble }

// Value returns the last value given for prefix.
func (a ArgumentMultimap) Value(prefix Prefix) (string, bool) {
	vs := a.values[prefix]
	if len(vs) == 0 {
		return "", false
	}
	return vs[len(vs)-1], true
}

func (a ArgumentMultimap) AllValues(prefix Prefix) []string {
	out := make([]string, len(a.values[prefix]))
	copy(out, a.values[prefix])
	return out
}

func (a ArgumentMultimap) Present(prefixes ...Prefix) bool {
	for _, p := range prefixes {
		if _, ok := a.Value(p); !ok {
			return false
		}
	}
	return true
}

// VerifyNoDuplicates fails when any of the single-valued prefixes was given
// more than once.
func (a ArgumentMultimap) VerifyNoDuplicates(prefixes ...Prefix) error {
	var dup []string
	for _, p := range prefixes {
		if len(a.values[p]) > 1 {
			dup = append(dup, string(p))
		}
	}
	if len(dup) == 0 {
		return nil
	}
	return &Error{Message: fmt.Sprintf(MessageDuplicateFields, strings.Join(dup, " "))}
}

type prefixPosition struct {
	prefix Prefix
	start  int
}

// Tokenize splits args on the given prefixes. A prefix only counts at the
// start of args or after a space, so "pp/" is never read as "p/".
func Tokenize(args string, prefixes ...Prefix) ArgumentMultimap {
	text := " " + args
	var positions []prefixPosition
	for _, p := range prefixes {
		needle := " " + string(p)
		from := 0
		for {
			i := strings.Index(text[from:], needle)
			if i < 0 {
				break
			}
			positions = append(positions, prefixPosition{prefix: p, start: from + i + 1})
			from += i + 1
		}
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].start < positions[j].start })

	out := ArgumentMultimap{values: make(map[Prefix][]string)}
	end := len(text)
	if len(positions) > 0 {
		end = positions[0].start
	}
	out.preamble = strings.TrimSpace(text[:end])
	for i, pos := range positions {
		end := len(text)
		if i+1 < len(positions) {
			end = positions[i+1].start
		}
		value := strings.TrimSpace(text[pos.start+len(pos.prefix) : end])
		out.values[pos.prefix] = append(out.values[pos.prefix], value)
	}
	return out
}
