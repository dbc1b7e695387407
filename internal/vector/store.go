package vector

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/VarunSharma3520/autocomplete/internal/logger"
)

const (
	defaultQdrantAddress = "localhost:6334"
	defaultLimit         = 8
	upsertBatch          = 64

	payloadType      = "type"
	payloadText      = "text"
	payloadCandidate = "candidate"
)

// candidateNamespace seeds the deterministic point ids, so indexing the same
// candidate twice overwrites one point instead of creating a duplicate.
var candidateNamespace = uuid.MustParse("6f1c3e4a-2b8d-4c59-9a57-0d2e8b7f4c11")

// VectorStore indexes suggestion candidates in Qdrant and answers
// nearest-neighbour queries for the semantic suggestion source.
type VectorStore struct {
	collectionsClient pb.CollectionsClient
	pointsClient      pb.PointsClient
	collection        string
	embedder          Embedder
	limit             int
	logger            *logger.Logger
}

// NewVectorStore creates a new VectorStore instance
func NewVectorStore(conn grpc.ClientConnInterface, collection string, embedder Embedder, logger *logger.Logger) *VectorStore {
	return newStore(pb.NewCollectionsClient(conn), pb.NewPointsClient(conn), collection, embedder, logger)
}

func newStore(collections pb.CollectionsClient, points pb.PointsClient, collection string, embedder Embedder, logger *logger.Logger) *VectorStore {
	return &VectorStore{
		collectionsClient: collections,
		pointsClient:      points,
		collection:        collection,
		embedder:          embedder,
		limit:             defaultLimit,
		logger:            logger,
	}
}

// SetLimit sets how many suggestions Fetch returns.
func (vs *VectorStore) SetLimit(n int) {
	if n > 0 {
		vs.limit = n
	}
}

// Embed creates a vector embedding for the given text
func (vs *VectorStore) Embed(ctx context.Context, text string) ([]float32, error) {
	if vs.embedder == nil {
		return nil, fmt.Errorf("no embedder configured")
	}
	return vs.embedder.Embed(ctx, text)
}

// EnsureCollection creates the collection if it doesn't exist
func (vs *VectorStore) EnsureCollection(ctx context.Context, vectorSize uint64) error {
	_, err := vs.collectionsClient.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: vs.collection,
	})
	if err == nil {
		vs.logger.Debug("collection exists", map[string]interface{}{"collection": vs.collection})
		return nil
	}

	vs.logger.Info("creating collection", map[string]interface{}{"collection": vs.collection, "vector_size": vectorSize})
	_, err = vs.collectionsClient.Create(ctx, &pb.CreateCollection{
		CollectionName: vs.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     vectorSize,
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		vs.logger.Error("failed to create collection", err, map[string]interface{}{"collection": vs.collection})
		return fmt.Errorf("failed to create collection '%s': %w", vs.collection, err)
	}
	return nil
}

// ResetIndex deletes and recreates the collection to reset the index
func (vs *VectorStore) ResetIndex(ctx context.Context, vectorSize uint64) error {
	_, err := vs.collectionsClient.Delete(ctx, &pb.DeleteCollection{
		CollectionName: vs.collection,
	})
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	return vs.EnsureCollection(ctx, vectorSize)
}

// isNotFoundError checks if the error is a "not found" error from Qdrant
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if s, ok := status.FromError(err); ok && s.Code() == codes.NotFound {
		return true
	}
	return err.Error() == "not found" || err.Error() == "collection not found"
}

// PointID returns the deterministic point id for a candidate.
func (vs *VectorStore) PointID(candidate string) string {
	return uuid.NewSHA1(candidateNamespace, []byte(vs.collection+"\x00"+candidate)).String()
}

// IndexCandidates embeds every candidate and upserts it into the collection.
// Candidates that fail to embed are skipped; their errors are returned
// together after the rest have been stored.
func (vs *VectorStore) IndexCandidates(ctx context.Context, candidates []string) (int, error) {
	var (
		errs   *multierror.Error
		batch  []*pb.PointStruct
		stored int
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		wait := true
		_, err := vs.pointsClient.Upsert(ctx, &pb.UpsertPoints{
			CollectionName: vs.collection,
			Wait:           &wait,
			Points:         batch,
		})
		if err != nil {
			return fmt.Errorf("failed to store vectors in Qdrant: %w", err)
		}
		stored += len(batch)
		batch = batch[:0]
		return nil
	}

	for _, c := range candidates {
		vec, err := vs.Embed(ctx, c)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("embed %q: %w", c, err))
			continue
		}
		batch = append(batch, vs.point(c, vec))
		if len(batch) == upsertBatch {
			if err := flush(); err != nil {
				return stored, multierror.Append(errs, err).ErrorOrNil()
			}
		}
	}
	if err := flush(); err != nil {
		errs = multierror.Append(errs, err)
	}

	vs.logger.Info("indexed candidates", map[string]interface{}{
		"collection": vs.collection,
		"stored":     stored,
		"total":      len(candidates),
	})
	return stored, errs.ErrorOrNil()
}

func (vs *VectorStore) point(candidate string, vector []float32) *pb.PointStruct {
	return &pb.PointStruct{
		Id: &pb.PointId{
			PointIdOptions: &pb.PointId_Uuid{
				Uuid: vs.PointID(candidate),
			},
		},
		Vectors: &pb.Vectors{
			VectorsOptions: &pb.Vectors_Vector{
				Vector: &pb.Vector{
					Data: vector,
				},
			},
		},
		Payload: map[string]*pb.Value{
			payloadType: {Kind: &pb.Value_StringValue{StringValue: payloadCandidate}},
			payloadText: {Kind: &pb.Value_StringValue{StringValue: candidate}},
		},
	}
}

// Fetch returns the candidates nearest to query, best match first.
// It makes VectorStore usable as a suggest.Fetcher.
func (vs *VectorStore) Fetch(ctx context.Context, query string) ([]string, error) {
	if query == "" {
		return nil, nil
	}
	embedding, err := vs.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	points, err := vs.SearchSimilar(ctx, embedding, uint64(vs.limit))
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(points))
	seen := make(map[string]struct{}, len(points))
	for _, p := range points {
		v, ok := p.GetPayload()[payloadText]
		if !ok {
			continue
		}
		text := v.GetStringValue()
		if text == "" {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		out = append(out, text)
	}
	return out, nil
}

// SearchSimilar finds the indexed candidates closest to vector.
func (vs *VectorStore) SearchSimilar(ctx context.Context, vector []float32, limit uint64) ([]*pb.ScoredPoint, error) {
	res, err := vs.pointsClient.Search(ctx, &pb.SearchPoints{
		CollectionName: vs.collection,
		Vector:         vector,
		Limit:          limit,
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{
				Enable: true,
			},
		},
		Filter: &pb.Filter{
			Must: []*pb.Condition{
				{
					ConditionOneOf: &pb.Condition_Field{
						Field: &pb.FieldCondition{
							Key: payloadType,
							Match: &pb.Match{
								MatchValue: &pb.Match_Keyword{
									Keyword: payloadCandidate,
								},
							},
						},
					},
				},
			},
		},
	})
	if err != nil {
		vs.logger.Error("failed to search vectors", err, map[string]interface{}{"collection": vs.collection})
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return res.GetResult(), nil
}

// ConnectToQdrant creates a new gRPC client connection to a Qdrant server
func ConnectToQdrant(address string) (*grpc.ClientConn, error) {
	if address == "" {
		address = defaultQdrantAddress
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Qdrant: %w", err)
	}
	return conn, nil
}
