package render

// Renderer renders a use case result for humans
type Renderer[T any] interface {
	Render(result T) error
}
