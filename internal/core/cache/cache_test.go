package cache_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/core/cache"
	"github.com/frahmantamala/payroll-management/internal/core/events"
)

func TestCache(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cache Suite")
}

type snapshot struct {
	Count int    `json:"count"`
	Label string `json:"label"`
}

var _ = Describe("JSONCache", func() {
	var (
		ctx    context.Context
		server *miniredis.Miniredis
		c      *cache.JSONCache
		logger *slog.Logger
	)

	BeforeEach(func() {
		ctx = context.Background()
		server = miniredis.RunT(GinkgoT())
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		c = cache.New(internal.CacheConfig{RedisAddr: server.Addr(), SummaryTTL: time.Minute}, logger)
	})

	AfterEach(func() {
		Expect(c.Close()).To(Succeed())
	})

	It("should round trip JSON values under the key prefix", func() {
		Expect(c.SetJSONAt(ctx, "summary", snapshot{Count: 3, Label: "Week 48"}, 0)).To(BeTrue())
		Expect(server.Exists("payroll-management:summary")).To(BeTrue())

		var got snapshot
		hit, err := c.GetJSON(ctx, "summary", &got)
		Expect(err).NotTo(HaveOccurred())
		Expect(hit).To(BeTrue())
		Expect(got).To(Equal(snapshot{Count: 3, Label: "Week 48"}))
	})

	It("should report a miss without error", func() {
		var got snapshot
		hit, err := c.GetJSON(ctx, "absent", &got)
		Expect(err).NotTo(HaveOccurred())
		Expect(hit).To(BeFalse())
	})

	It("should expire entries after the ttl", func() {
		Expect(c.SetJSONAt(ctx, "summary", snapshot{Count: 1}, 0)).To(BeTrue())
		server.FastForward(2 * time.Minute)

		var got snapshot
		hit, err := c.GetJSON(ctx, "summary", &got)
		Expect(err).NotTo(HaveOccurred())
		Expect(hit).To(BeFalse())
	})

	It("should surface a corrupt entry as an error", func() {
		Expect(server.Set("payroll-management:summary", "{not json")).To(Succeed())
		var got snapshot
		_, err := c.GetJSON(ctx, "summary", &got)
		Expect(err).To(HaveOccurred())
	})

	It("should drop keys when a subscribed event is published", func() {
		bus := events.NewEventBus(logger)
		c.InvalidateOn(bus, []string{"summary"}, events.ChangeTypes...)

		Expect(c.SetJSONAt(ctx, "summary", snapshot{Count: 1}, 0)).To(BeTrue())
		Expect(bus.PublishSync(ctx, events.NewEmployeeChangedEvent(1, events.ActionCreated))).To(Succeed())
		Expect(server.Exists("payroll-management:summary")).To(BeFalse())
	})

	It("should bump the version on invalidation", func() {
		bus := events.NewEventBus(logger)
		c.InvalidateOn(bus, []string{"summary"}, events.ChangeTypes...)

		v, err := c.Version(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeZero())

		Expect(bus.PublishSync(ctx, events.NewPeriodChangedEvent(1, events.ActionUpdated))).To(Succeed())
		v, err = c.Version(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(int64(1)))
	})

	It("should store a versioned value only while the version is current", func() {
		v, err := c.Version(ctx)
		Expect(err).NotTo(HaveOccurred())

		stored, err := c.SetJSONAt(ctx, "summary", snapshot{Count: 1}, v)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored).To(BeTrue())
		Expect(server.TTL("payroll-management:summary")).To(Equal(time.Minute))

		Expect(c.Invalidate(ctx, "summary")).To(Succeed())
		Expect(server.Exists("payroll-management:summary")).To(BeFalse())

		stored, err = c.SetJSONAt(ctx, "summary", snapshot{Count: 2}, v)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored).To(BeFalse())
		Expect(server.Exists("payroll-management:summary")).To(BeFalse())
	})

	It("should not fail publishers when redis is down", func() {
		bus := events.NewEventBus(logger)
		c.InvalidateOn(bus, []string{"summary"}, events.EventTypeDepartmentChanged)
		server.SetError("LOADING redis is loading the dataset in memory")

		Expect(bus.PublishSync(ctx, events.NewDepartmentChangedEvent(1, events.ActionDeleted))).To(Succeed())
	})

	It("should answer pings", func() {
		Expect(c.Ping(ctx)).To(Succeed())
	})
})

var _ = Describe("disabled cache", func() {
	It("should be nil without an address and behave as always missing", func() {
		ctx := context.Background()
		c := cache.New(internal.CacheConfig{}, nil)
		Expect(c).To(BeNil())
		Expect(c.Enabled()).To(BeFalse())

		var v int
		hit, err := c.GetJSON(ctx, "k", &v)
		Expect(err).NotTo(HaveOccurred())
		Expect(hit).To(BeFalse())
		Expect(c.Ping(ctx)).To(Succeed())
		Expect(c.Invalidate(ctx, "k")).To(Succeed())
		version, err := c.Version(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(BeZero())
		stored, err := c.SetJSONAt(ctx, "k", 1, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored).To(BeFalse())
		Expect(c.Close()).To(Succeed())
	})

	It("should wrap an existing client", func() {
		server := miniredis.RunT(GinkgoT())
		client := redis.NewClient(&redis.Options{Addr: server.Addr()})
		c := cache.NewWithClient(client, time.Second, slog.Default())
		Expect(c.Enabled()).To(BeTrue())
		Expect(c.Close()).To(Succeed())
	})
})
