package platform

import (
	"time"

	"github.com/disgoorg/disgo/events"
	"github.com/fuad-daoud/bot-dashboard/logger/dlog"
)

func (s *Session) readyHandler(event *events.Ready) {
	s.markReady(time.Now())
	dlog.Info("Logged in as "+event.User.Tag(), "guilds", len(event.Guilds))
}

func (s *Session) resumedHandler(_ *events.Resumed) {
	dlog.Info("gateway session resumed")
}
