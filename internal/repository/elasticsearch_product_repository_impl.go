package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Aymix/whitecart/internal/dto"
	pkgdto "github.com/Aymix/whitecart/pkg/dto"
	"github.com/Aymix/whitecart/pkg/errs"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/rs/zerolog/log"
)

const productIndex = "products"

type elasticsearchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source dto.ProductResponse `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type ElasticSearchProductRepositoryImpl struct {
	client *elasticsearch.Client
}

func CreateElasticSearchProductRepository(client *elasticsearch.Client) ProductSearchRepository {
	return &ElasticSearchProductRepositoryImpl{client: client}
}

func (r *ElasticSearchProductRepositoryImpl) IndexProduct(ctx context.Context, data dto.ProductResponse) (err error) {
	if r.client == nil {
		return errs.ErrInternalServer
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return
	}

	res, err := r.client.Index(productIndex, bytes.NewReader(payload),
		r.client.Index.WithContext(ctx),
		r.client.Index.WithDocumentID(data.ID),
	)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "IndexProduct").Msg("")
		return
	}
	defer res.Body.Close()

	return checkResponse(res)
}

func (r *ElasticSearchProductRepositoryImpl) DeleteProduct(ctx context.Context, id string) (err error) {
	if r.client == nil {
		return errs.ErrInternalServer
	}

	res, err := r.client.Delete(productIndex, id, r.client.Delete.WithContext(ctx))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteProduct").Msg("")
		return
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return errs.ErrNotFound
	}

	return checkResponse(res)
}

func (r *ElasticSearchProductRepositoryImpl) SearchProducts(ctx context.Context, filter pkgdto.Filter) (data []dto.ProductResponse, err error) {
	if r.client == nil {
		return nil, errs.ErrInternalServer
	}

	must := []interface{}{
		map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     filter.Q,
				"fields":    []string{"name^3", "description", "category"},
				"fuzziness": "AUTO",
			},
		},
	}
	if filter.Category != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"category.keyword": filter.Category},
		})
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
	}
	if filter.Limit != 0 && filter.Page != 0 {
		query["size"] = filter.Limit
		query["from"] = (filter.Page - 1) * filter.Limit
	}

	var buf bytes.Buffer
	if err = json.NewEncoder(&buf).Encode(query); err != nil {
		return
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(productIndex),
		r.client.Search.WithBody(&buf),
	)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "SearchProducts").Msg("")
		return
	}
	defer res.Body.Close()

	if err = checkResponse(res); err != nil {
		return
	}

	var parsed elasticsearchResponse
	if err = json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return
	}

	data = make([]dto.ProductResponse, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		data = append(data, hit.Source)
	}

	return data, nil
}

func checkResponse(res *esapi.Response) error {
	if res.IsError() {
		return fmt.Errorf("elasticsearch: %s", res.String())
	}
	return nil
}
