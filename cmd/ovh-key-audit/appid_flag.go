package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errIDsBeforeAppID = errors.New("application ids must follow --appid")

// appIDGroup is one --appid occurrence: the ids given in its value and the
// number of positional arguments parsed before it.
type appIDGroup struct {
	after int
	ids   []int64
}

// appIDsFlag collects --appid values so that the space separated ids trailing
// each occurrence can be put back in command-line order.
type appIDsFlag struct {
	narg   func() int
	groups []appIDGroup
}

func (f *appIDsFlag) Set(value string) error {
	ids, err := parseAppIDs(strings.Split(value, ","))
	if err != nil {
		return err
	}
	f.groups = append(f.groups, appIDGroup{after: f.narg(), ids: ids})
	return nil
}

func (f *appIDsFlag) Type() string {
	return "ids"
}

func (f *appIDsFlag) String() string {
	var parts []string
	for _, g := range f.groups {
		for _, id := range g.ids {
			parts = append(parts, strconv.FormatInt(id, 10))
		}
	}
	return strings.Join(parts, ",")
}

// resolve merges the flag values with the positional arguments. Every
// positional argument must come after an --appid occurrence.
func (f *appIDsFlag) resolve(args []string) ([]int64, error) {
	if len(f.groups) == 0 {
		if len(args) > 0 {
			return nil, fmt.Errorf("unexpected arguments %v; pass application ids with --appid", args)
		}
		return nil, nil
	}
	if f.groups[0].after > 0 {
		return nil, fmt.Errorf("%w: %v", errIDsBeforeAppID, args[:f.groups[0].after])
	}

	var out []int64
	for i, g := range f.groups {
		end := len(args)
		if i+1 < len(f.groups) {
			end = f.groups[i+1].after
		}
		trailing, err := parseAppIDs(args[g.after:end])
		if err != nil {
			return nil, err
		}
		out = append(out, g.ids...)
		out = append(out, trailing...)
	}
	return out, nil
}

func parseAppIDs(values []string) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	for _, value := range values {
		id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid application id %q", value)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
