package vectorstore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"

	"github.com/magabrotheeeer/syara/internal/config"
)

// QdrantStore клиент Qdrant по gRPC.
//
// Qdrant принимает в качестве ID только числа и UUID, поэтому строковый ID
// записи отображается в UUIDv5, а исходное значение хранится в payload.
type QdrantStore struct {
	client *qdrant.Client
	log    *slog.Logger

	known sync.Map
}

func validateQdrantConfig(cfg config.Qdrant) error {
	if cfg.Host == "" {
		return fmt.Errorf("%w: qdrant host required", ErrInvalidConfig)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("%w: qdrant port out of range: %d", ErrInvalidConfig, cfg.Port)
	}
	if cfg.MaxMessageSize < 0 {
		return fmt.Errorf("%w: qdrant max message size must not be negative", ErrInvalidConfig)
	}
	return nil
}

// NewQdrantStore создаёт клиента. Соединение устанавливается лениво при первом запросе.
func NewQdrantStore(cfg config.Qdrant, log *slog.Logger) (*QdrantStore, error) {
	if err := validateQdrantConfig(cfg); err != nil {
		return nil, err
	}
	if !cfg.UseTLS {
		log.Warn("qdrant gRPC uses plaintext, TLS is disabled")
	}

	qcfg := &qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	}
	if cfg.MaxMessageSize > 0 {
		qcfg.GrpcOptions = []grpc.DialOption{
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(cfg.MaxMessageSize),
				grpc.MaxCallSendMsgSize(cfg.MaxMessageSize),
			),
		}
	}

	client, err := qdrant.NewClient(qcfg)
	if err != nil {
		return nil, fmt.Errorf("qdrant: connect %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return &QdrantStore{client: client, log: log}, nil
}

func (s *QdrantStore) ensureCollection(ctx context.Context, name string, dim int) error {
	if _, ok := s.known.Load(name); ok {
		return nil
	}
	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("qdrant: check collection %s: %w", name, err)
	}
	if !exists {
		err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: name,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(dim),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("qdrant: create collection %s: %w", name, err)
		}
		s.log.Info("created collection", slog.String("collection", name), slog.Int("dim", dim))
	}
	s.known.Store(name, struct{}{})
	return nil
}

func (s *QdrantStore) collectionExists(ctx context.Context, name string) (bool, error) {
	if _, ok := s.known.Load(name); ok {
		return true, nil
	}
	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("qdrant: check collection %s: %w", name, err)
	}
	if exists {
		s.known.Store(name, struct{}{})
	}
	return exists, nil
}

// Upsert сохраняет записи, создавая коллекцию с косинусной метрикой при необходимости.
func (s *QdrantStore) Upsert(ctx context.Context, collection string, records []Record) error {
	if err := ValidateCollectionName(collection); err != nil {
		return err
	}
	dim, err := validateRecords(records)
	if err != nil {
		return err
	}
	if err := s.ensureCollection(ctx, collection, dim); err != nil {
		return err
	}

	points := make([]*qdrant.PointStruct, len(records))
	for i, r := range records {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(pointID(r.ID)),
			Vectors: qdrant.NewVectors(r.Vector...),
			Payload: toPayload(r),
		}
	}

	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("qdrant: upsert into %s: %w", collection, err)
	}
	return nil
}

// Query ищет ближайших соседей vector.
func (s *QdrantStore) Query(ctx context.Context, collection string, vector []float32, topK int, filter map[string]string) ([]Match, error) {
	if err := ValidateCollectionName(collection); err != nil {
		return nil, err
	}
	if err := validateQuery(vector, topK); err != nil {
		return nil, err
	}
	exists, err := s.collectionExists(ctx, collection)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
	}

	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		Filter:         toFilter(filter),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: query %s: %w", collection, err)
	}

	matches := make([]Match, len(points))
	for i, p := range points {
		matches[i] = fromPayload(p.GetPayload())
		matches[i].Score = p.GetScore()
	}
	return matches, nil
}

// Delete удаляет записи по ID. Отсутствие коллекции не считается ошибкой.
func (s *QdrantStore) Delete(ctx context.Context, collection string, ids []string) error {
	if err := ValidateCollectionName(collection); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	exists, err := s.collectionExists(ctx, collection)
	if err != nil || !exists {
		return err
	}

	pointIDs := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = qdrant.NewIDUUID(pointID(id))
	}
	_, err = s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Wait:           qdrant.PtrOf(true),
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{Ids: pointIDs},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("qdrant: delete from %s: %w", collection, err)
	}
	return nil
}

// Close закрывает gRPC-соединение.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}

func pointID(id string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)).String()
}

func stringValue(v string) *qdrant.Value {
	return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: v}}
}

func toPayload(r Record) map[string]*qdrant.Value {
	payload := make(map[string]*qdrant.Value, len(r.Metadata)+2)
	for k, v := range r.Metadata {
		payload[k] = stringValue(v)
	}
	payload[payloadID] = stringValue(r.ID)
	if r.Content != "" {
		payload[payloadContent] = stringValue(r.Content)
	}
	return payload
}

func fromPayload(payload map[string]*qdrant.Value) Match {
	var m Match
	for k, v := range payload {
		switch k {
		case payloadID:
			m.ID = v.GetStringValue()
		case payloadContent:
			m.Content = v.GetStringValue()
		default:
			if m.Metadata == nil {
				m.Metadata = make(map[string]string)
			}
			m.Metadata[k] = v.GetStringValue()
		}
	}
	return m
}

func toFilter(filter map[string]string) *qdrant.Filter {
	if len(filter) == 0 {
		return nil
	}
	conditions := make([]*qdrant.Condition, 0, len(filter))
	for k, v := range filter {
		conditions = append(conditions, &qdrant.Condition{
			ConditionOneOf: &qdrant.Condition_Field{
				Field: &qdrant.FieldCondition{
					Key: k,
					Match: &qdrant.Match{
						MatchValue: &qdrant.Match_Keyword{Keyword: v},
					},
				},
			},
		})
	}
	return &qdrant.Filter{Must: conditions}
}
