// Package cache implementa el DocumentCache del servicio de jerarquía sobre
// Redis: el documento completo del CV se cachea serializado para que GET /cv
// no toque la DB en cada petición. Cualquier mutación lo invalida.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/virtualcv-api/internal/application/dto"
	"github.com/jhoicas/virtualcv-api/internal/application/usecase"
)

const (
	documentKey = "cv:document"

	// DefaultTTL vida del documento cacheado si no se configura otra.
	DefaultTTL = 5 * time.Minute
)

var _ usecase.DocumentCache = (*CvCache)(nil)

// CvCache cache del documento del CV en Redis. Los errores de cache se
// registran y se ignoran: nunca rompen la petición.
type CvCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect crea el cliente Redis y verifica la conexión con un ping.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// New construye el cache con el TTL dado (0 usa DefaultTTL).
func New(client *redis.Client, ttl time.Duration) *CvCache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &CvCache{client: client, ttl: ttl}
}

// Get devuelve el documento cacheado, o (nil, false) en miss o error.
func (c *CvCache) Get(ctx context.Context) (*dto.CvDataResponse, bool) {
	raw, err := c.client.Get(ctx, documentKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Warn().Err(err).Msg("cache get del documento CV")
		return nil, false
	}
	var doc dto.CvDataResponse
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Warn().Err(err).Msg("cache con documento CV corrupto, se descarta")
		c.Invalidate(ctx)
		return nil, false
	}
	return &doc, true
}

// Set guarda el documento con el TTL configurado.
func (c *CvCache) Set(ctx context.Context, doc *dto.CvDataResponse) {
	raw, err := json.Marshal(doc)
	if err != nil {
		log.Warn().Err(err).Msg("serializar documento CV para cache")
		return
	}
	if err := c.client.Set(ctx, documentKey, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("cache set del documento CV")
	}
}

// Invalidate elimina el documento cacheado (tras cualquier mutación).
func (c *CvCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, documentKey).Err(); err != nil {
		log.Warn().Err(err).Msg("cache invalidate del documento CV")
	}
}
