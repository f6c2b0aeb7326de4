package logs

import (
	"context"
	"fmt"
)

// WrapSpan tags err with the span of ctx so a fatal error can be matched to its log lines.
func WrapSpan(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	span, ok := ctx.Value(SpanKey).(Span)
	if !ok {
		return err
	}
	return fmt.Errorf("span %s: %w", span, err)
}
