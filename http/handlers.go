package http

import (
	"errors"
	"net/http"

	"github.com/fuad-daoud/bot-dashboard/bridge"
	"github.com/fuad-daoud/bot-dashboard/logger/dlog"
	"github.com/labstack/echo/v4"
)

type sendMessageRequest struct {
	ChannelID string `json:"channelId"`
	Message   string `json:"message"`
}

func (s *Server) status(c echo.Context) error {
	return c.JSON(http.StatusOK, s.service.Status())
}

func (s *Server) servers(c echo.Context) error {
	return c.JSON(http.StatusOK, s.service.Servers())
}

func (s *Server) channels(c echo.Context) error {
	channels, err := s.service.Channels(c.Param("serverId"))
	if err != nil {
		return c.String(http.StatusNotFound, "Server not found")
	}
	return c.JSON(http.StatusOK, channels)
}

func (s *Server) messages(c echo.Context) error {
	channelID := c.Param("channelId")
	messages, err := s.service.Messages(c.Request().Context(), channelID)
	s.metrics.gatewayCall("fetch_messages", err)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, messages)
	case isInvalidChannel(err):
		return c.String(http.StatusBadRequest, "Invalid channel")
	default:
		dlog.Error("Error fetching messages", "channel", channelID, "err", err)
		return c.String(http.StatusInternalServerError, "Error fetching messages")
	}
}

func (s *Server) sendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Echo().JSONSerializer.Deserialize(c, &req); err != nil {
		return c.String(http.StatusBadRequest, "Invalid request body")
	}

	err := s.service.Send(c.Request().Context(), req.ChannelID, req.Message)
	s.metrics.gatewayCall("send_message", err)
	switch {
	case err == nil:
		return c.String(http.StatusOK, "Message sent")
	case isInvalidChannel(err):
		return c.String(http.StatusBadRequest, "Invalid channel")
	default:
		dlog.Error("Error sending message", "channel", req.ChannelID, "err", err)
		return c.String(http.StatusInternalServerError, "Error sending message")
	}
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func isInvalidChannel(err error) bool {
	return errors.Is(err, bridge.ErrNotFound) || errors.Is(err, bridge.ErrInvalidTarget)
}
