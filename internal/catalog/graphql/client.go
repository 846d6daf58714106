// Package graphql implements the catalog client against the platform's
// Admin GraphQL API.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	catalogdomain "github.com/smallbiznis/backinstock/internal/catalog/domain"
	tenantdomain "github.com/smallbiznis/backinstock/internal/tenant/domain"
)

const accessTokenHeader = "X-Shopify-Access-Token"

// Factory builds per-shop GraphQL clients sharing one HTTP client.
type Factory struct {
	httpClient *http.Client
	apiVersion string

	// endpointOverride routes every shop to a fixed URL. Tests point it
	// at an httptest server.
	endpointOverride string
}

// NewFactory constructs the client factory.
func NewFactory(httpClient *http.Client, apiVersion string) *Factory {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Factory{httpClient: httpClient, apiVersion: apiVersion}
}

// NewFactoryWithEndpoint constructs a factory that sends every request to
// a fixed endpoint regardless of shop domain.
func NewFactoryWithEndpoint(httpClient *http.Client, apiVersion, endpoint string) *Factory {
	f := NewFactory(httpClient, apiVersion)
	f.endpointOverride = endpoint
	return f
}

// ForShop binds a client to one shop's domain and access token.
func (f *Factory) ForShop(shop *tenantdomain.Shop) catalogdomain.Client {
	endpoint := f.endpointOverride
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s/admin/api/%s/graphql.json", shop.ShopDomain, f.apiVersion)
	}
	return &client{
		httpClient:  f.httpClient,
		endpoint:    endpoint,
		accessToken: shop.AccessToken,
	}
}

type client struct {
	httpClient  *http.Client
	endpoint    string
	accessToken string
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *client) do(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(accessTokenHeader, c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", catalogdomain.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", catalogdomain.ErrCatalogUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", catalogdomain.ErrCatalogUnavailable, resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var decoded graphqlResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return fmt.Errorf("%w: %v", catalogdomain.ErrMalformedResponse, err)
	}
	if len(decoded.Errors) > 0 {
		return fmt.Errorf("%w: %s", catalogdomain.ErrUserError, decoded.Errors[0].Message)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(decoded.Data, out); err != nil {
		return fmt.Errorf("%w: %v", catalogdomain.ErrMalformedResponse, err)
	}
	return nil
}

const variantByInventoryItemQuery = `
query VariantByInventoryItem($id: ID!) {
  inventoryItem(id: $id) {
    variant {
      id
      image { url }
      product {
        id
        title
        handle
        featuredImage { url }
      }
    }
  }
}`

func (c *client) VariantByInventoryItem(ctx context.Context, inventoryItemID string) (*catalogdomain.Variant, error) {
	var data struct {
		InventoryItem *struct {
			Variant *struct {
				ID    string `json:"id"`
				Image *struct {
					URL string `json:"url"`
				} `json:"image"`
				Product *struct {
					ID            string `json:"id"`
					Title         string `json:"title"`
					Handle        string `json:"handle"`
					FeaturedImage *struct {
						URL string `json:"url"`
					} `json:"featuredImage"`
				} `json:"product"`
			} `json:"variant"`
		} `json:"inventoryItem"`
	}

	variables := map[string]any{"id": catalogdomain.GlobalID("InventoryItem", inventoryItemID)}
	if err := c.do(ctx, variantByInventoryItemQuery, variables, &data); err != nil {
		return nil, err
	}
	if data.InventoryItem == nil || data.InventoryItem.Variant == nil || data.InventoryItem.Variant.Product == nil {
		return nil, nil
	}

	node := data.InventoryItem.Variant
	variant := &catalogdomain.Variant{
		VariantID:     catalogdomain.LegacyID(node.ID),
		ProductID:     catalogdomain.LegacyID(node.Product.ID),
		ProductTitle:  node.Product.Title,
		ProductHandle: node.Product.Handle,
	}
	if node.Image != nil && node.Image.URL != "" {
		variant.ImageURL = node.Image.URL
	} else if node.Product.FeaturedImage != nil {
		variant.ImageURL = node.Product.FeaturedImage.URL
	}
	return variant, nil
}

func (c *client) ShopMetafields(ctx context.Context, namespace string, keys []string) (map[string]string, error) {
	var sb strings.Builder
	sb.WriteString("query ShopMetafields($namespace: String!) {\n  shop {\n")
	for i, key := range keys {
		fmt.Fprintf(&sb, "    m%d: metafield(namespace: $namespace, key: %q) { value }\n", i, key)
	}
	sb.WriteString("  }\n}")

	var data struct {
		Shop map[string]*struct {
			Value string `json:"value"`
		} `json:"shop"`
	}
	if err := c.do(ctx, sb.String(), map[string]any{"namespace": namespace}, &data); err != nil {
		return nil, err
	}

	values := make(map[string]string, len(keys))
	for i, key := range keys {
		field := data.Shop[fmt.Sprintf("m%d", i)]
		if field == nil {
			continue
		}
		if value := strings.TrimSpace(field.Value); value != "" {
			values[key] = value
		}
	}
	return values, nil
}

const listRecordsQuery = `
query ListRecords($type: String!, $first: Int!, $after: String) {
  metaobjects(type: $type, first: $first, after: $after) {
    pageInfo {
      hasNextPage
      endCursor
    }
    nodes {
      id
      fields {
        key
        value
      }
    }
  }
}`

func (c *client) ListRecords(ctx context.Context, recordType string, pageSize int, cursor string) (*catalogdomain.RecordPage, error) {
	variables := map[string]any{
		"type":  recordType,
		"first": pageSize,
	}
	if cursor != "" {
		variables["after"] = cursor
	}

	var data struct {
		Metaobjects struct {
			PageInfo struct {
				HasNextPage bool   `json:"hasNextPage"`
				EndCursor   string `json:"endCursor"`
			} `json:"pageInfo"`
			Nodes []struct {
				ID     string `json:"id"`
				Fields []struct {
					Key   string `json:"key"`
					Value string `json:"value"`
				} `json:"fields"`
			} `json:"nodes"`
		} `json:"metaobjects"`
	}
	if err := c.do(ctx, listRecordsQuery, variables, &data); err != nil {
		return nil, err
	}

	page := &catalogdomain.RecordPage{
		EndCursor:   data.Metaobjects.PageInfo.EndCursor,
		HasNextPage: data.Metaobjects.PageInfo.HasNextPage,
	}
	for _, node := range data.Metaobjects.Nodes {
		record := catalogdomain.Record{ID: node.ID}
		for _, field := range node.Fields {
			record.Fields = append(record.Fields, catalogdomain.RecordField{Key: field.Key, Value: field.Value})
		}
		page.Records = append(page.Records, record)
	}
	return page, nil
}

const createRecordMutation = `
mutation CreateRecord($metaobject: MetaobjectCreateInput!) {
  metaobjectCreate(metaobject: $metaobject) {
    metaobject { id }
    userErrors { field message }
  }
}`

func (c *client) CreateRecord(ctx context.Context, record catalogdomain.NewRecord) (string, error) {
	fields := make([]map[string]string, 0, len(record.Fields))
	for _, field := range record.Fields {
		fields = append(fields, map[string]string{"key": field.Key, "value": field.Value})
	}
	variables := map[string]any{
		"metaobject": map[string]any{
			"type":   record.Type,
			"fields": fields,
		},
	}

	var data struct {
		MetaobjectCreate struct {
			Metaobject *struct {
				ID string `json:"id"`
			} `json:"metaobject"`
			UserErrors []struct {
				Message string `json:"message"`
			} `json:"userErrors"`
		} `json:"metaobjectCreate"`
	}
	if err := c.do(ctx, createRecordMutation, variables, &data); err != nil {
		return "", err
	}
	if len(data.MetaobjectCreate.UserErrors) > 0 {
		return "", fmt.Errorf("%w: %s", catalogdomain.ErrUserError, data.MetaobjectCreate.UserErrors[0].Message)
	}
	if data.MetaobjectCreate.Metaobject == nil {
		return "", catalogdomain.ErrMalformedResponse
	}
	return data.MetaobjectCreate.Metaobject.ID, nil
}

const readRecordQuery = `
query ReadRecord($id: ID!) {
  metaobject(id: $id) {
    fields {
      key
      value
    }
  }
}`

const updateRecordMutation = `
mutation UpdateRecord($id: ID!, $metaobject: MetaobjectUpdateInput!) {
  metaobjectUpdate(id: $id, metaobject: $metaobject) {
    metaobject { id }
    userErrors { field message }
  }
}`

// UpdateRecordField re-reads the record before writing so a concurrent
// transition is detected and reported as a lost swap. The platform offers
// no server-side conditional update; this narrows the race window rather
// than closing it.
func (c *client) UpdateRecordField(ctx context.Context, recordID, key, expect, value string) (bool, error) {
	var current struct {
		Metaobject *struct {
			Fields []struct {
				Key   string `json:"key"`
				Value string `json:"value"`
			} `json:"fields"`
		} `json:"metaobject"`
	}
	if err := c.do(ctx, readRecordQuery, map[string]any{"id": recordID}, &current); err != nil {
		return false, err
	}
	if current.Metaobject == nil {
		return false, catalogdomain.ErrRecordNotFound
	}
	for _, field := range current.Metaobject.Fields {
		if field.Key == key && field.Value != expect {
			return false, nil
		}
	}

	variables := map[string]any{
		"id": recordID,
		"metaobject": map[string]any{
			"fields": []map[string]string{{"key": key, "value": value}},
		},
	}
	var data struct {
		MetaobjectUpdate struct {
			UserErrors []struct {
				Message string `json:"message"`
			} `json:"userErrors"`
		} `json:"metaobjectUpdate"`
	}
	if err := c.do(ctx, updateRecordMutation, variables, &data); err != nil {
		return false, err
	}
	if len(data.MetaobjectUpdate.UserErrors) > 0 {
		return false, fmt.Errorf("%w: %s", catalogdomain.ErrUserError, data.MetaobjectUpdate.UserErrors[0].Message)
	}
	return true, nil
}
