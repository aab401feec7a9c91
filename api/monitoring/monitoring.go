package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "warbler_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	LoginSuccess = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warbler_login_success_total",
		Help: "Total successful login attempts",
	})

	LoginFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_login_failure_total",
		Help: "Total failed login attempts",
	}, []string{"reason"})

	SignupSuccess = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warbler_signup_success_total",
		Help: "Total successful signups",
	})

	MessagesPosted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warbler_messages_posted_total",
		Help: "Total messages successfully posted",
	})

	LikesToggled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_likes_toggled_total",
		Help: "Likes added and removed",
	}, []string{"action"})

	FollowsChanged = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_follows_changed_total",
		Help: "Follow edges created and removed",
	}, []string{"action"})

	RateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_rate_limited_total",
		Help: "Requests rejected by a rate limiter",
	}, []string{"limiter"})
)

func init() {
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(LoginSuccess)
	prometheus.MustRegister(LoginFailure)
	prometheus.MustRegister(SignupSuccess)
	prometheus.MustRegister(MessagesPosted)
	prometheus.MustRegister(LikesToggled)
	prometheus.MustRegister(FollowsChanged)
	prometheus.MustRegister(RateLimited)
}

// InstrumentHandler records request timing and status per route template.
func InstrumentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
