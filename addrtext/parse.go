// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package addrtext parses the line-oriented address-list text format used
// by the ipbdd CLI (spec.md §6): one address, optionally with a /cidr
// suffix, per line; a leading '!' marks the line for removal rather than
// insertion; lines starting with '#' or whitespace are ignored. This
// collaborator is explicitly out of the core's scope (spec.md §1) — it
// only ever hands the core a parsed Entry.
package addrtext

import (
	"bufio"
	"io"
	"net/netip"
	"strings"

	"github.com/dalzilio/ipbdd/ipset"
	"github.com/pkg/errors"
)

// Entry is one parsed line of an address list.
type Entry struct {
	// Line is the 1-based source line number, for error reporting.
	Line int
	// Remove is true when the line was prefixed with '!'.
	Remove bool
	// Prefix is always set, even for a single address (as a /32 or /128).
	Prefix netip.Prefix
}

// Scan reads addr-list text from r, calling f for each non-blank,
// non-comment line. It does not stop at the first parse error: per
// spec.md §7 ("User-visible behavior"), a collaborator prints one error
// per offending input line and continues, so Scan instead collects every
// line error and returns them all via a single *ipset.Error whose message
// joins them with "; ", after having already called f for every line that
// did parse.
func Scan(r io.Reader, f func(Entry) error) error {
	scanner := bufio.NewScanner(r)
	lineNum := 0
	var errs []string
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			continue
		}
		entry, err := parseLine(trimmed, lineNum)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		if err := f(entry); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := scanner.Err(); err != nil {
		return &ipset.Error{Kind: ipset.ErrIO, Op: "addrtext.Scan", Err: errors.WithStack(err)}
	}
	if len(errs) > 0 {
		return &ipset.Error{Kind: ipset.ErrInvalidAddress, Op: "addrtext.Scan", Err: errors.New(strings.Join(errs, "; "))}
	}
	return nil
}

func parseLine(trimmed string, lineNum int) (Entry, error) {
	remove := false
	if strings.HasPrefix(trimmed, "!") {
		remove = true
		trimmed = strings.TrimSpace(trimmed[1:])
	}

	var prefix netip.Prefix
	if idx := strings.IndexByte(trimmed, '/'); idx >= 0 {
		p, err := netip.ParsePrefix(trimmed)
		if err != nil {
			return Entry{}, errors.Wrapf(err, "line %d: %q", lineNum, trimmed)
		}
		prefix = p
	} else {
		addr, err := netip.ParseAddr(trimmed)
		if err != nil {
			return Entry{}, errors.Wrapf(err, "line %d: %q", lineNum, trimmed)
		}
		bits := 32
		if addr.Is6() && !addr.Is4In6() {
			bits = 128
		}
		prefix = netip.PrefixFrom(addr, bits)
	}
	return Entry{Line: lineNum, Remove: remove, Prefix: prefix}, nil
}
