package ecs

import "github.com/google/uuid"

// chunkKey is the (instance name, chunk x, chunk z) key for
// entities_by_chunk (spec.md §4.5).
type chunkKey struct {
	instance string
	x, z     int32
}

// IndexUUID records h under id in the uuid_index (spec.md §4.5
// "uuid_index: Uuid → Handle"). Called by the system that processes
// AddEntity/player-info packets, not by application code directly.
func (w *World) IndexUUID(id uuid.UUID, h Handle) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.uuidIndex[id] = h
}

// HandleByUUID looks up an entity by its Minecraft UUID.
func (w *World) HandleByUUID(id uuid.UUID) (Handle, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	h, ok := w.uuidIndex[id]
	return h, ok
}

// IndexMinecraftID records h under the server-assigned numeric entity
// id (spec.md §4.5 "minecraft_id_index: u32 → Handle (per local-player
// entity, since ids are only unique per server)").
func (w *World) IndexMinecraftID(id int32, h Handle) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.minecraftIDIdx[id] = h
}

// HandleByMinecraftID looks up an entity by its server-assigned
// numeric id.
func (w *World) HandleByMinecraftID(id int32) (Handle, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	h, ok := w.minecraftIDIdx[id]
	return h, ok
}

// IndexChunk adds h to the entities_by_chunk bucket for (instance, cx, cz).
func (w *World) IndexChunk(instance string, cx, cz int32, h Handle) {
	w.mu.Lock()
	defer w.mu.Unlock()
	k := chunkKey{instance, cx, cz}
	bucket, ok := w.chunkIndex[k]
	if !ok {
		bucket = map[Handle]struct{}{}
		w.chunkIndex[k] = bucket
	}
	bucket[h] = struct{}{}
}

// UnindexChunk removes h from the entities_by_chunk bucket for
// (instance, cx, cz) — called by the chunk-tracking system when an
// entity's Position crosses a chunk boundary, before re-indexing it
// under the new chunk (spec.md §4.5 "updated when Position changes
// cross a chunk boundary").
func (w *World) UnindexChunk(instance string, cx, cz int32, h Handle) {
	w.mu.Lock()
	defer w.mu.Unlock()
	k := chunkKey{instance, cx, cz}
	if bucket, ok := w.chunkIndex[k]; ok {
		delete(bucket, h)
		if len(bucket) == 0 {
			delete(w.chunkIndex, k)
		}
	}
}

// HandlesInChunk returns every entity currently indexed under
// (instance, cx, cz).
func (w *World) HandlesInChunk(instance string, cx, cz int32) []Handle {
	w.mu.RLock()
	defer w.mu.RUnlock()
	bucket := w.chunkIndex[chunkKey{instance, cx, cz}]
	out := make([]Handle, 0, len(bucket))
	for h := range bucket {
		out = append(out, h)
	}
	return out
}

// removeFromIndexesLocked strips h from every index; called by
// Despawn, which already holds w.mu.
func (w *World) removeFromIndexesLocked(h Handle) {
	for id, candidate := range w.uuidIndex {
		if candidate == h {
			delete(w.uuidIndex, id)
		}
	}
	for id, candidate := range w.minecraftIDIdx {
		if candidate == h {
			delete(w.minecraftIDIdx, id)
		}
	}
	for _, bucket := range w.chunkIndex {
		delete(bucket, h)
	}
}
