package helpers

import (
	"io"
	"net/http"
	"time"

	"github.com/openzipkin/zipkin-go"
	zipkinhttp "github.com/openzipkin/zipkin-go/middleware/http"
	"github.com/openzipkin/zipkin-go/reporter"
	httpreporter "github.com/openzipkin/zipkin-go/reporter/http"
)

// ClientTimeout bounds every request of the traced client
const ClientTimeout = 10 * time.Second

// InitTracer creates the zipkin tracer of the service. Without address,
// spans are discarded. The returned closer flushes the reporter.
func InitTracer(address, service, hostPort string) (*zipkinhttp.Client, func(http.Handler) http.Handler, io.Closer) {
	// set up a span reporter
	var rep reporter.Reporter
	if address == "" {
		rep = reporter.NewNoopReporter()
	} else {
		rep = httpreporter.NewReporter("http://" + address + "/api/v2/spans")
	}

	// create our local service endpoint
	endpoint, err := zipkin.NewEndpoint(service, hostPort)
	if err != nil {
		Logger.Error().Err(err).Msg("unable to create local endpoint")
	}

	// initialize our tracer
	tracer, err := zipkin.NewTracer(rep, zipkin.WithLocalEndpoint(endpoint))
	if err != nil {
		Logger.Error().Err(err).Msg("unable to create tracer")
		tracer, _ = zipkin.NewTracer(reporter.NewNoopReporter())
	}

	// create global zipkin http server middleware
	serverMiddleware := zipkinhttp.NewServerMiddleware(
		tracer, zipkinhttp.TagResponseSize(true),
	)

	// create global zipkin traced http client
	client, err := zipkinhttp.NewClient(tracer,
		zipkinhttp.WithClient(&http.Client{Timeout: ClientTimeout}),
		zipkinhttp.ClientTrace(true),
	)
	if err != nil {
		Logger.Error().Err(err).Msg("unable to create client")
	}

	return client, serverMiddleware, rep
}
