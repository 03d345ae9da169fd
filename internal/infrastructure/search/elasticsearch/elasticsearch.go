package elasticsearch

import (
	"net/http"

	"github.com/Aymix/whitecart/config"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// CreateElasticsearchClient returns nil when no host is configured or the cluster is unreachable.
func CreateElasticsearchClient(config *config.Config) *elasticsearch.Client {
	if config.ElasticsearchConfig.DBHost == "" {
		return nil
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{config.ElasticsearchConfig.DBHost},
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
	if err != nil {
		log.Error().Err(err).Str("component", "CreateElasticsearchClient").Msg("")
		return nil
	}

	res, err := client.Info()
	if err != nil {
		log.Error().Err(err).Str("component", "CreateElasticsearchClient").Msg("")
		return nil
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Error().Str("component", "CreateElasticsearchClient").Msg(res.String())
		return nil
	}

	return client
}
