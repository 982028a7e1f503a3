package services

import (
	"context"

	"retro-chat/contract"
	"retro-chat/runtime"
)

type IChatService interface {
	Attach(connectionID string, sink contract.EventSink)
	Join(ctx context.Context, connectionID, displayName, token, channel string) error
	PostMessage(ctx context.Context, connectionID, text, channel string) error
	RunCommand(ctx context.Context, connectionID, raw string)
	SwitchChannel(ctx context.Context, connectionID, newChannel string)
	Disconnect(ctx context.Context, connectionID string)
}

// ChatService is the transport-facing facade over the coordinator.
type ChatService struct {
	coordinator *runtime.Coordinator
}

func NewChatService(coordinator *runtime.Coordinator) *ChatService {
	return &ChatService{coordinator: coordinator}
}

func (s *ChatService) Attach(connectionID string, sink contract.EventSink) {
	s.coordinator.Attach(connectionID, sink)
}

func (s *ChatService) Join(ctx context.Context, connectionID, displayName, token, channel string) error {
	return s.coordinator.Join(ctx, connectionID, displayName, token, channel)
}

func (s *ChatService) PostMessage(ctx context.Context, connectionID, text, channel string) error {
	return s.coordinator.PostMessage(ctx, connectionID, text, channel)
}

func (s *ChatService) RunCommand(ctx context.Context, connectionID, raw string) {
	s.coordinator.RunCommand(ctx, connectionID, raw)
}

func (s *ChatService) SwitchChannel(ctx context.Context, connectionID, newChannel string) {
	s.coordinator.SwitchChannel(ctx, connectionID, newChannel)
}

func (s *ChatService) Disconnect(ctx context.Context, connectionID string) {
	s.coordinator.Disconnect(ctx, connectionID)
}
