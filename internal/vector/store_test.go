package vector

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pb "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeCollections struct {
	pb.CollectionsClient
	exists  bool
	created []*pb.CreateCollection
	deleted int
}

func (f *fakeCollections) Get(ctx context.Context, in *pb.GetCollectionInfoRequest, _ ...grpc.CallOption) (*pb.GetCollectionInfoResponse, error) {
	if !f.exists {
		return nil, status.Error(codes.NotFound, "collection not found")
	}
	return &pb.GetCollectionInfoResponse{}, nil
}

func (f *fakeCollections) Create(ctx context.Context, in *pb.CreateCollection, _ ...grpc.CallOption) (*pb.CollectionOperationResponse, error) {
	f.created = append(f.created, in)
	f.exists = true
	return &pb.CollectionOperationResponse{Result: true}, nil
}

func (f *fakeCollections) Delete(ctx context.Context, in *pb.DeleteCollection, _ ...grpc.CallOption) (*pb.CollectionOperationResponse, error) {
	f.deleted++
	if !f.exists {
		return nil, status.Error(codes.NotFound, "collection not found")
	}
	f.exists = false
	return &pb.CollectionOperationResponse{Result: true}, nil
}

type fakePoints struct {
	pb.PointsClient
	upserts  [][]*pb.PointStruct
	search   *pb.SearchPoints
	results  []*pb.ScoredPoint
	failNext error
}

func (f *fakePoints) Upsert(ctx context.Context, in *pb.UpsertPoints, _ ...grpc.CallOption) (*pb.PointsOperationResponse, error) {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return nil, err
	}
	f.upserts = append(f.upserts, append([]*pb.PointStruct(nil), in.GetPoints()...))
	return &pb.PointsOperationResponse{}, nil
}

func (f *fakePoints) Search(ctx context.Context, in *pb.SearchPoints, _ ...grpc.CallOption) (*pb.SearchResponse, error) {
	f.search = in
	return &pb.SearchResponse{Result: f.results}, nil
}

type failingEmbedder struct {
	bad string
}

func (e failingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == e.bad {
		return nil, errors.New("model unavailable")
	}
	return []float32{1, 0}, nil
}

func scored(text string) *pb.ScoredPoint {
	return &pb.ScoredPoint{Payload: map[string]*pb.Value{
		payloadText: {Kind: &pb.Value_StringValue{StringValue: text}},
	}}
}

func TestEnsureCollectionCreatesOnce(t *testing.T) {
	cols := &fakeCollections{}
	vs := newStore(cols, &fakePoints{}, "cands", NewHashEmbedder(8), nil)

	require.NoError(t, vs.EnsureCollection(context.Background(), 8))
	require.NoError(t, vs.EnsureCollection(context.Background(), 8))
	require.Len(t, cols.created, 1)
	require.Equal(t, uint64(8), cols.created[0].GetVectorsConfig().GetParams().GetSize())
}

func TestResetIndexIgnoresMissingCollection(t *testing.T) {
	cols := &fakeCollections{}
	vs := newStore(cols, &fakePoints{}, "cands", NewHashEmbedder(8), nil)

	require.NoError(t, vs.ResetIndex(context.Background(), 8))
	require.Equal(t, 1, cols.deleted)
	require.Len(t, cols.created, 1)
}

func TestIndexCandidatesStoresPayloadAndIDs(t *testing.T) {
	points := &fakePoints{}
	vs := newStore(&fakeCollections{}, points, "cands", NewHashEmbedder(16), nil)

	n, err := vs.IndexCandidates(context.Background(), []string{"Apple", "Banana"})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Len(t, points.upserts, 1)

	p := points.upserts[0][0]
	require.Equal(t, vs.PointID("Apple"), p.GetId().GetUuid())
	require.Equal(t, "Apple", p.GetPayload()[payloadText].GetStringValue())
	require.Equal(t, payloadCandidate, p.GetPayload()[payloadType].GetStringValue())
	require.Len(t, p.GetVectors().GetVector().GetData(), 16)
}

func TestIndexCandidatesCollectsEmbedErrors(t *testing.T) {
	points := &fakePoints{}
	vs := newStore(&fakeCollections{}, points, "cands", failingEmbedder{bad: "Banana"}, nil)

	n, err := vs.IndexCandidates(context.Background(), []string{"Apple", "Banana", "Cherry"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Banana")
	require.Equal(t, 2, n)
}

func TestIndexCandidatesUpsertFailure(t *testing.T) {
	points := &fakePoints{failNext: errors.New("unavailable")}
	vs := newStore(&fakeCollections{}, points, "cands", NewHashEmbedder(4), nil)

	n, err := vs.IndexCandidates(context.Background(), []string{"Apple"})
	require.Error(t, err)
	require.Zero(t, n)
}

func TestPointIDIsDeterministic(t *testing.T) {
	a := newStore(nil, nil, "cands", nil, nil)
	b := newStore(nil, nil, "other", nil, nil)
	require.Equal(t, a.PointID("Apple"), a.PointID("Apple"))
	require.NotEqual(t, a.PointID("Apple"), a.PointID("apple"))
	require.NotEqual(t, a.PointID("Apple"), b.PointID("Apple"))
}

func TestFetchReturnsPayloadTextDeduped(t *testing.T) {
	points := &fakePoints{results: []*pb.ScoredPoint{scored("Apple"), scored("Apricot"), scored("Apple"), {}}}
	vs := newStore(&fakeCollections{}, points, "cands", NewHashEmbedder(8), nil)
	vs.SetLimit(3)

	got, err := vs.Fetch(context.Background(), "ap")
	require.NoError(t, err)
	require.Equal(t, []string{"Apple", "Apricot"}, got)
	require.Equal(t, uint64(3), points.search.GetLimit())
	require.Equal(t, "cands", points.search.GetCollectionName())
	require.Equal(t, payloadCandidate, points.search.GetFilter().GetMust()[0].GetField().GetMatch().GetKeyword())
}

func TestFetchEmptyQuery(t *testing.T) {
	points := &fakePoints{}
	vs := newStore(&fakeCollections{}, points, "cands", NewHashEmbedder(8), nil)

	got, err := vs.Fetch(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, got)
	require.Nil(t, points.search)
}

func TestOllamaEmbedder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/embeddings", r.URL.Path)
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "embed-test", req["model"])
		require.Equal(t, "apple", req["prompt"])
		_, _ = w.Write([]byte(`{"embedding":[0.5,0.25]}`))
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "embed-test")
	vec, err := e.Embed(context.Background(), "apple")
	require.NoError(t, err)
	require.Equal(t, []float32{0.5, 0.25}, vec)
}

func TestOllamaEmbedderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewOllamaEmbedder(srv.URL, "m").Embed(context.Background(), "x")
	require.ErrorContains(t, err, "500")
}

func TestOllamaEmbedderEmptyEmbedding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embedding":[]}`))
	}))
	defer srv.Close()

	_, err := NewOllamaEmbedder(srv.URL, "m").Embed(context.Background(), "x")
	require.ErrorContains(t, err, "no embedding data")
}

func TestOllamaEmbedderCanceled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(`{"embedding":[1]}`))
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewOllamaEmbedder(srv.URL, "m").Embed(ctx, "x")
	require.ErrorIs(t, err, context.Canceled)
}

func TestHashEmbedderSimilarity(t *testing.T) {
	h := NewHashEmbedder(64)
	a, _ := h.Embed(context.Background(), "apple")
	b, _ := h.Embed(context.Background(), "APPLE")
	require.Equal(t, a, b)
	require.Len(t, a, 64)
}
