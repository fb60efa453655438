package logger_test

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/Affo25/imsdashboard/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Request logger", func() {
	var (
		buf *bytes.Buffer
		ctx context.Context
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		ctx = logger.NewContext(context.Background(), slog.New(slog.NewJSONHandler(buf, nil)))
	})

	It("should fall back to a process logger when the context has none", func() {
		Expect(logger.From(context.Background())).NotTo(BeNil())
	})

	It("should return the logger stored on the context", func() {
		logger.From(ctx).Info("hello")
		Expect(buf.String()).To(ContainSubstring(`"msg":"hello"`))
	})

	It("should accumulate fields across calls", func() {
		ctx = logger.With(ctx, "trace_id", "abc")
		ctx = logger.With(ctx, "step", 2)
		logger.From(ctx).Info("done")

		Expect(buf.String()).To(ContainSubstring(`"trace_id":"abc"`))
		Expect(buf.String()).To(ContainSubstring(`"step":2`))
	})

	It("should group the authenticated user", func() {
		logger.From(logger.WithUser(ctx, 42, "manager")).Warn("denied")
		Expect(buf.String()).To(ContainSubstring(`"user":{"id":42,"role":"manager"}`))
	})

	It("should leave the parent context untouched", func() {
		_ = logger.WithUser(ctx, 42, "manager")
		logger.From(ctx).Info("plain")
		Expect(buf.String()).NotTo(ContainSubstring(`"user"`))
	})
})
