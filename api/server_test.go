package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyric-engineering/fleetscope/aggregator"
	"github.com/lyric-engineering/fleetscope/provision"
	"github.com/lyric-engineering/fleetscope/storage"
	"github.com/lyric-engineering/fleetscope/types"
)

type fakeStore struct {
	snapshot  []types.ClusterRecord
	summaries []storage.ClusterSummary
	detail    *storage.ClusterDetail
	listErr   error
	saveErr   error
}

func (f *fakeStore) ReplaceSnapshot(_ context.Context, clusters []types.ClusterRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.snapshot = clusters
	return nil
}

func (f *fakeStore) ListSummaries(_ context.Context) ([]storage.ClusterSummary, error) {
	return f.summaries, f.listErr
}

func (f *fakeStore) GetCluster(_ context.Context, name string) (*storage.ClusterDetail, error) {
	if f.detail != nil && f.detail.Name == name {
		return f.detail, nil
	}
	return nil, nil
}

type fakeCollector struct {
	result *aggregator.Result
}

func (f *fakeCollector) CollectAll(_ context.Context) *aggregator.Result {
	return f.result
}

type fakeProvisioner struct {
	requests []provision.Request
	err      error
}

func (f *fakeProvisioner) Provision(_ context.Context, req provision.Request) error {
	if f.err != nil {
		return f.err
	}
	f.requests = append(f.requests, req)
	return nil
}

type fakeLister struct {
	clusters []provision.CommittedCluster
	err      error
}

func (f *fakeLister) ListCommitted(_ context.Context) ([]provision.CommittedCluster, error) {
	return f.clusters, f.err
}

func decodeBody(t *testing.T, res *http.Response) map[string]json.RawMessage {
	t.Helper()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &decoded))
	return decoded
}

func TestHealth(t *testing.T) {
	server := NewServer(&fakeStore{}, &fakeCollector{result: &aggregator.Result{}}, &fakeProvisioner{})
	app := server.App(nil)

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestSyncClusters(t *testing.T) {
	store := &fakeStore{}
	collector := &fakeCollector{result: &aggregator.Result{
		Clusters: []types.ClusterRecord{{Name: "prod-cluster", Provider: types.ProviderAWS}},
	}}
	server := NewServer(store, collector, &fakeProvisioner{})
	app := server.App(nil)

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/clusters/sync", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	body := decodeBody(t, res)
	var clusters []types.ClusterRecord
	require.NoError(t, json.Unmarshal(body["clusters"], &clusters))
	require.Len(t, clusters, 1)
	assert.Equal(t, "prod-cluster", clusters[0].Name)

	// Snapshot was persisted.
	assert.Len(t, store.snapshot, 1)
}

func TestSyncClustersEmptyRun(t *testing.T) {
	server := NewServer(&fakeStore{}, &fakeCollector{result: &aggregator.Result{}}, &fakeProvisioner{})
	app := server.App(nil)

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/clusters/sync", nil))
	require.NoError(t, err)

	body := decodeBody(t, res)
	assert.JSONEq(t, "[]", string(body["clusters"]))
}

func TestSyncClustersStoreFailureStillResponds(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("mongo down")}
	collector := &fakeCollector{result: &aggregator.Result{
		Clusters: []types.ClusterRecord{{Name: "prod-cluster"}},
	}}
	server := NewServer(store, collector, &fakeProvisioner{})
	app := server.App(nil)

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/clusters/sync", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestListClusters(t *testing.T) {
	store := &fakeStore{summaries: []storage.ClusterSummary{
		{Name: "prod-cluster", Provider: "AWS", Type: "Production", Region: "us-east-1"},
	}}
	server := NewServer(store, &fakeCollector{result: &aggregator.Result{}}, &fakeProvisioner{})
	app := server.App(nil)

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/clusters", nil))
	require.NoError(t, err)

	body := decodeBody(t, res)
	var summaries []storage.ClusterSummary
	require.NoError(t, json.Unmarshal(body["clusters"], &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "prod-cluster", summaries[0].Name)
}

func TestListClustersStoreFailureDegrades(t *testing.T) {
	store := &fakeStore{listErr: errors.New("mongo down")}
	server := NewServer(store, &fakeCollector{result: &aggregator.Result{}}, &fakeProvisioner{})
	app := server.App(nil)

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/clusters", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	body := decodeBody(t, res)
	assert.JSONEq(t, "[]", string(body["clusters"]))
}

func TestGetCluster(t *testing.T) {
	store := &fakeStore{detail: &storage.ClusterDetail{Name: "prod-cluster", Provider: "AWS"}}
	server := NewServer(store, &fakeCollector{result: &aggregator.Result{}}, &fakeProvisioner{})
	app := server.App(nil)

	t.Run("found", func(t *testing.T) {
		res, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/clusters/prod-cluster", nil))
		require.NoError(t, err)

		body := decodeBody(t, res)
		var detail storage.ClusterDetail
		require.NoError(t, json.Unmarshal(body["cluster"], &detail))
		assert.Equal(t, "prod-cluster", detail.Name)
	})

	t.Run("not found returns null cluster", func(t *testing.T) {
		res, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/clusters/missing", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)

		body := decodeBody(t, res)
		assert.Equal(t, "null", string(body["cluster"]))
	})
}

func TestProvisionCluster(t *testing.T) {
	provisioner := &fakeProvisioner{}
	server := NewServer(&fakeStore{}, &fakeCollector{result: &aggregator.Result{}}, provisioner)
	app := server.App(nil)

	t.Run("success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/provision",
			strings.NewReader(`{"cluster_name":"analytics","customer_category":"acme"}`))
		req.Header.Set("Content-Type", "application/json")

		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		require.Len(t, provisioner.requests, 1)
		assert.Equal(t, "analytics", provisioner.requests[0].ClusterName)
	})

	t.Run("committed listing", func(t *testing.T) {
		lister := &fakeLister{clusters: []provision.CommittedCluster{
			{Name: "analytics", Provider: "aws", Type: "Production", Region: "us-east-1", CustomerCategory: "acme"},
		}}
		server := NewServer(&fakeStore{}, &fakeCollector{result: &aggregator.Result{}}, &fakeProvisioner{}).
			WithCommittedLister(lister)
		app := server.App(nil)

		res, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/provision", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)

		body := decodeBody(t, res)
		var clusters []provision.CommittedCluster
		require.NoError(t, json.Unmarshal(body["clusters"], &clusters))
		require.Len(t, clusters, 1)
		assert.Equal(t, "analytics", clusters[0].Name)
	})

	t.Run("committed listing failure degrades", func(t *testing.T) {
		server := NewServer(&fakeStore{}, &fakeCollector{result: &aggregator.Result{}}, &fakeProvisioner{}).
			WithCommittedLister(&fakeLister{err: errors.New("github unavailable")})
		app := server.App(nil)

		res, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/provision", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)

		body := decodeBody(t, res)
		assert.JSONEq(t, "[]", string(body["clusters"]))
	})

	t.Run("not configured", func(t *testing.T) {
		server := NewServer(&fakeStore{}, &fakeCollector{result: &aggregator.Result{}}, nil)
		app := server.App(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/provision",
			strings.NewReader(`{"cluster_name":"analytics","customer_category":"acme"}`))
		req.Header.Set("Content-Type", "application/json")

		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)

		res, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/provision", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("provisioner failure", func(t *testing.T) {
		failing := &fakeProvisioner{err: errors.New("region must be one of ...")}
		server := NewServer(&fakeStore{}, &fakeCollector{result: &aggregator.Result{}}, failing)
		app := server.App(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/provision",
			strings.NewReader(`{"cluster_name":"analytics","customer_category":"acme","region":"mars"}`))
		req.Header.Set("Content-Type", "application/json")

		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}
