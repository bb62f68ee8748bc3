package ui

import "github.com/automoto/doomerang-arena/peers"

// feedSize is how many registry events stay on screen above the status line.
const feedSize = 3

// feed is a short log of peers joining, leaving, dying and reviving.
type feed struct {
	lines []string
	names map[string]string
}

func (f *feed) push(line string) {
	f.lines = append(f.lines, line)
	if len(f.lines) > feedSize {
		f.lines = f.lines[len(f.lines)-feedSize:]
	}
}

func (f *feed) name(id string) string {
	if n, ok := f.names[id]; ok {
		return n
	}
	return displayName(peers.PeerView{ID: id})
}

// Observer returns the registry observer that feeds the event log.
// Recolors need no handling since the radar reads colors from every View.
func (u *Screen) Observer() peers.Observer {
	f := &u.feed
	return peers.ObserverFuncs{
		Joined: func(v peers.PeerView) {
			if f.names == nil {
				f.names = make(map[string]string)
			}
			f.names[v.ID] = displayName(v)
			f.push(f.names[v.ID] + " joined")
		},
		Left: func(id string) {
			f.push(f.name(id) + " left")
			delete(f.names, id)
		},
		Died: func(id string) {
			f.push(f.name(id) + " is down")
		},
		Revived: func(id string) {
			f.push(f.name(id) + " is back")
		},
	}
}

// Feed returns the lines currently shown, oldest first.
func (u *Screen) Feed() []string {
	return append([]string(nil), u.feed.lines...)
}
