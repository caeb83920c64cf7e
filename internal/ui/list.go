package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/tunesx/internal/models"
)

var (
	_ list.Item = tuneItem{}
)

// tuneItem wraps [models.TuneRecord] to implement [list.Item].
type tuneItem struct {
	tune models.TuneRecord
}

func (i tuneItem) FilterValue() string {
	return strings.Join(append([]string{i.tune.Name}, i.tune.Aliases...), " ")
}

func (i tuneItem) Title() string { return i.tune.Name }

func (i tuneItem) Description() string {
	desc := fmt.Sprintf("%s • %s • %d tunebooks", i.tune.Type, i.tune.Key, i.tune.Tunebooks)
	if len(i.tune.Aliases) > 0 {
		desc = fmt.Sprintf("%s • aka %s", desc, strings.Join(i.tune.Aliases, ", "))
	}
	return desc
}
