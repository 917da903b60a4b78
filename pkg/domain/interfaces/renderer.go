package interfaces

//go:generate moq -out mocks/renderer_mock.go -pkg mocks . Renderer

import (
	"context"

	"github.com/secmon-lab/scoreboard/pkg/domain/model"
)

// Renderer is the rendering boundary. It receives one frame per cycle and is
// responsible for the actual visual output.
type Renderer interface {
	Render(ctx context.Context, frame *model.Frame) error
}
