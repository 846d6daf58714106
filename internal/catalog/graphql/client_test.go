package graphql

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	catalogdomain "github.com/smallbiznis/backinstock/internal/catalog/domain"
	tenantdomain "github.com/smallbiznis/backinstock/internal/tenant/domain"
)

type fakePlatform struct {
	t        *testing.T
	handlers map[string]func(variables map[string]any) string
	requests []string
}

func (f *fakePlatform) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Shopify-Access-Token"); got != "shpat_test" {
			f.t.Errorf("missing access token header, got %q", got)
		}
		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			f.t.Fatalf("decode request: %v", err)
		}
		for name, respond := range f.handlers {
			if strings.Contains(req.Query, name) {
				f.requests = append(f.requests, name)
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(respond(req.Variables)))
				return
			}
		}
		f.t.Fatalf("unexpected query: %s", req.Query)
	}
}

func newTestClient(t *testing.T, fake *fakePlatform) catalogdomain.Client {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	factory := NewFactoryWithEndpoint(srv.Client(), "2024-07", srv.URL)
	return factory.ForShop(&tenantdomain.Shop{
		ShopDomain:  "demo.myshopify.com",
		AccessToken: "shpat_test",
	})
}

func TestVariantByInventoryItem(t *testing.T) {
	fake := &fakePlatform{t: t, handlers: map[string]func(map[string]any) string{
		"VariantByInventoryItem": func(vars map[string]any) string {
			if vars["id"] != "gid://shopify/InventoryItem/111" {
				t.Errorf("unexpected inventory item gid %v", vars["id"])
			}
			return `{"data":{"inventoryItem":{"variant":{
				"id":"gid://shopify/ProductVariant/42",
				"image":null,
				"product":{
					"id":"gid://shopify/Product/99",
					"title":"Wool Sweater",
					"handle":"wool-sweater",
					"featuredImage":{"url":"https://cdn.example/wool.jpg"}
				}
			}}}}`
		},
	}}

	variant, err := newTestClient(t, fake).VariantByInventoryItem(context.Background(), "111")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if variant.VariantID != "42" || variant.ProductID != "99" {
		t.Fatalf("unexpected ids: %+v", variant)
	}
	if variant.ProductTitle != "Wool Sweater" || variant.ProductHandle != "wool-sweater" {
		t.Fatalf("unexpected product metadata: %+v", variant)
	}
	if variant.ImageURL != "https://cdn.example/wool.jpg" {
		t.Fatalf("expected featured image fallback, got %q", variant.ImageURL)
	}
}

func TestVariantByInventoryItemNotFound(t *testing.T) {
	fake := &fakePlatform{t: t, handlers: map[string]func(map[string]any) string{
		"VariantByInventoryItem": func(map[string]any) string {
			return `{"data":{"inventoryItem":null}}`
		},
	}}

	variant, err := newTestClient(t, fake).VariantByInventoryItem(context.Background(), "404")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if variant != nil {
		t.Fatalf("expected not-found to return nil, got %+v", variant)
	}
}

func TestVariantPrefersOwnImage(t *testing.T) {
	fake := &fakePlatform{t: t, handlers: map[string]func(map[string]any) string{
		"VariantByInventoryItem": func(map[string]any) string {
			return `{"data":{"inventoryItem":{"variant":{
				"id":"gid://shopify/ProductVariant/42",
				"image":{"url":"https://cdn.example/variant.jpg"},
				"product":{
					"id":"gid://shopify/Product/99",
					"title":"Wool Sweater",
					"handle":"wool-sweater",
					"featuredImage":{"url":"https://cdn.example/wool.jpg"}
				}
			}}}}`
		},
	}}

	variant, err := newTestClient(t, fake).VariantByInventoryItem(context.Background(), "111")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if variant.ImageURL != "https://cdn.example/variant.jpg" {
		t.Fatalf("expected variant image, got %q", variant.ImageURL)
	}
}

func TestShopMetafields(t *testing.T) {
	fake := &fakePlatform{t: t, handlers: map[string]func(map[string]any) string{
		"ShopMetafields": func(vars map[string]any) string {
			if vars["namespace"] != "clevertap" {
				t.Errorf("unexpected namespace %v", vars["namespace"])
			}
			return `{"data":{"shop":{
				"m0":{"value":"ACC-123"},
				"m1":{"value":"PASS-456"},
				"m2":null
			}}}`
		},
	}}

	values, err := newTestClient(t, fake).ShopMetafields(context.Background(), "clevertap", []string{"account_id", "passcode", "region"})
	if err != nil {
		t.Fatalf("metafields: %v", err)
	}
	if values["account_id"] != "ACC-123" || values["passcode"] != "PASS-456" {
		t.Fatalf("unexpected values: %v", values)
	}
	if _, ok := values["region"]; ok {
		t.Fatal("missing metafield must be absent from the map")
	}
}

func TestListRecordsPagination(t *testing.T) {
	fake := &fakePlatform{t: t, handlers: map[string]func(map[string]any) string{
		"ListRecords": func(vars map[string]any) string {
			if vars["after"] == nil {
				return `{"data":{"metaobjects":{
					"pageInfo":{"hasNextPage":true,"endCursor":"cur-1"},
					"nodes":[{"id":"gid://shopify/Metaobject/1","fields":[{"key":"email","value":"a@x.com"}]}]
				}}}`
			}
			return `{"data":{"metaobjects":{
				"pageInfo":{"hasNextPage":false,"endCursor":""},
				"nodes":[{"id":"gid://shopify/Metaobject/2","fields":[{"key":"email","value":"b@x.com"}]}]
			}}}`
		},
	}}

	client := newTestClient(t, fake)
	first, err := client.ListRecords(context.Background(), "backinstock_request", 100, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !first.HasNextPage || first.EndCursor != "cur-1" || len(first.Records) != 1 {
		t.Fatalf("unexpected first page: %+v", first)
	}

	second, err := client.ListRecords(context.Background(), "backinstock_request", 100, first.EndCursor)
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if second.HasNextPage || len(second.Records) != 1 || second.Records[0].ID != "gid://shopify/Metaobject/2" {
		t.Fatalf("unexpected second page: %+v", second)
	}
}

func TestCreateRecord(t *testing.T) {
	fake := &fakePlatform{t: t, handlers: map[string]func(map[string]any) string{
		"CreateRecord": func(map[string]any) string {
			return `{"data":{"metaobjectCreate":{"metaobject":{"id":"gid://shopify/Metaobject/9"},"userErrors":[]}}}`
		},
	}}

	id, err := newTestClient(t, fake).CreateRecord(context.Background(), catalogdomain.NewRecord{
		Type: "backinstock_request",
		Fields: []catalogdomain.RecordField{
			{Key: "email", Value: "a@x.com"},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != "gid://shopify/Metaobject/9" {
		t.Fatalf("unexpected id %q", id)
	}
}

func TestUpdateRecordFieldLostSwap(t *testing.T) {
	fake := &fakePlatform{t: t, handlers: map[string]func(map[string]any) string{
		"ReadRecord": func(map[string]any) string {
			return `{"data":{"metaobject":{"fields":[{"key":"status","value":"notified"}]}}}`
		},
		"UpdateRecord": func(map[string]any) string {
			t.Error("update must not run after a lost swap")
			return `{}`
		},
	}}

	updated, err := newTestClient(t, fake).UpdateRecordField(context.Background(), "gid://shopify/Metaobject/1", "status", "pending", "notified")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated {
		t.Fatal("expected lost swap to report false")
	}
}

func TestUpdateRecordFieldWins(t *testing.T) {
	fake := &fakePlatform{t: t, handlers: map[string]func(map[string]any) string{
		"ReadRecord": func(map[string]any) string {
			return `{"data":{"metaobject":{"fields":[{"key":"status","value":"pending"}]}}}`
		},
		"UpdateRecord": func(map[string]any) string {
			return `{"data":{"metaobjectUpdate":{"metaobject":{"id":"gid://shopify/Metaobject/1"},"userErrors":[]}}}`
		},
	}}

	updated, err := newTestClient(t, fake).UpdateRecordField(context.Background(), "gid://shopify/Metaobject/1", "status", "pending", "notified")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated {
		t.Fatal("expected swap to succeed")
	}
}

func TestGraphQLErrorSurfaces(t *testing.T) {
	fake := &fakePlatform{t: t, handlers: map[string]func(map[string]any) string{
		"VariantByInventoryItem": func(map[string]any) string {
			return `{"errors":[{"message":"throttled"}]}`
		},
	}}

	_, err := newTestClient(t, fake).VariantByInventoryItem(context.Background(), "111")
	if err == nil || !strings.Contains(err.Error(), "throttled") {
		t.Fatalf("expected throttled error, got %v", err)
	}
}
