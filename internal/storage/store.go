package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/pders01/scriptorium/internal/analytics"
	"github.com/pders01/scriptorium/internal/debuglog"
	"github.com/pders01/scriptorium/internal/resource"
)

// ErrNotFound is returned when a key has no value in its bucket.
var ErrNotFound = errors.New("not found")

const DefaultTimeout = 1 * time.Second

var (
	meditationsBucket = []byte("meditations")
	sacredTextsBucket = []byte("sacred_texts")
	studiesBucket     = []byte("studies")
	contentBucket     = []byte("content")
	referencesBucket  = []byte("references")
	analyticsBucket   = []byte("analytics")
	feedsBucket       = []byte("feeds")
	metaBucket        = []byte("metadata")
)

var recordBuckets = map[resource.SourceType][]byte{
	resource.SourceMeditation: meditationsBucket,
	resource.SourceSacredText: sacredTextsBucket,
	resource.SourceStudy:      studiesBucket,
	resource.SourceContent:    contentBucket,
}

type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string) (*Store, error) {
	return Open(dbPath, DefaultTimeout)
}

// Open opens or creates the database at dbPath, waiting up to timeout for
// the file lock.
func Open(dbPath string, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{
			meditationsBucket, sacredTextsBucket, studiesBucket, contentBucket,
			referencesBucket, analyticsBucket, feedsBucket, metaBucket,
		} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func bucketFor(st resource.SourceType) ([]byte, error) {
	name, ok := recordBuckets[st]
	if !ok {
		return nil, fmt.Errorf("%w: %q", resource.ErrUnknownSourceType, st)
	}
	return name, nil
}

// SaveRecords upserts records into their collection buckets. A record that
// already exists keeps its original position in the catalog.
func (s *Store) SaveRecords(records ...resource.Record) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, rec := range records {
			if rec == nil {
				continue
			}
			if rec.RecordID() == "" {
				return fmt.Errorf("saving %s record: empty id", rec.SourceType())
			}
			name, err := bucketFor(rec.SourceType())
			if err != nil {
				return err
			}
			b := tx.Bucket(name)

			seq, err := existingSeq(b, name, rec.RecordID())
			if err != nil {
				return err
			}
			if seq == 0 {
				if seq, err = b.NextSequence(); err != nil {
					return err
				}
			}

			raw, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("encoding %s: %w", resource.Key(rec.SourceType(), rec.RecordID()), err)
			}
			data, err := json.Marshal(storedRecord{Seq: seq, Record: raw})
			if err != nil {
				return err
			}
			if err := b.Put([]byte(rec.RecordID()), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// existingSeq returns the insertion sequence already stored for id, or 0
// when there is none. An undecodable value is overwritten with a fresh one.
func existingSeq(b *bolt.Bucket, bucket []byte, id string) (uint64, error) {
	data := b.Get([]byte(id))
	if data == nil {
		return 0, nil
	}
	var sr storedRecord
	if err := json.Unmarshal(data, &sr); err != nil {
		debuglog.Warnf("storage: %s/%s is undecodable, assigning a new sequence: %v", bucket, id, err)
		return 0, nil
	}
	return sr.Seq, nil
}

// GetRecord returns one record by source type and id.
func (s *Store) GetRecord(st resource.SourceType, id string) (resource.Record, error) {
	name, err := bucketFor(st)
	if err != nil {
		return nil, err
	}
	var rec resource.Record
	err = s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(name).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%s: %w", resource.Key(st, id), ErrNotFound)
		}
		var sr storedRecord
		if err := json.Unmarshal(data, &sr); err != nil {
			return err
		}
		rec, err = decodeRecord(st, sr.Record)
		return err
	})
	return rec, err
}

func decodeRecord(st resource.SourceType, raw json.RawMessage) (resource.Record, error) {
	var rec resource.Record
	switch st {
	case resource.SourceMeditation:
		rec = &resource.Meditation{}
	case resource.SourceSacredText:
		rec = &resource.SacredText{}
	case resource.SourceStudy:
		rec = &resource.Study{}
	case resource.SourceContent:
		rec = &resource.Content{}
	default:
		return nil, fmt.Errorf("%w: %q", resource.ErrUnknownSourceType, st)
	}
	if err := json.Unmarshal(raw, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteRecord removes one record. Deleting a missing record is not an error.
func (s *Store) DeleteRecord(st resource.SourceType, id string) error {
	name, err := bucketFor(st)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(name).Delete([]byte(id))
	})
}

// LoadCatalog reads every collection and the reference table. Records
// come back in the order they were first saved; undecodable values are
// logged and skipped.
func (s *Store) LoadCatalog() (*resource.Catalog, error) {
	cat := &resource.Catalog{}
	err := s.db.View(func(tx *bolt.Tx) error {
		for _, st := range resource.SourceTypes() {
			type seqRecord struct {
				seq uint64
				rec resource.Record
			}
			var loaded []seqRecord
			name := recordBuckets[st]
			err := tx.Bucket(name).ForEach(func(k []byte, v []byte) error {
				var sr storedRecord
				if err := json.Unmarshal(v, &sr); err != nil {
					debuglog.Warnf("storage: skipping undecodable %s/%s: %v", name, k, err)
					return nil
				}
				rec, err := decodeRecord(st, sr.Record)
				if err != nil {
					debuglog.Warnf("storage: skipping undecodable %s/%s: %v", name, k, err)
					return nil
				}
				loaded = append(loaded, seqRecord{seq: sr.Seq, rec: rec})
				return nil
			})
			if err != nil {
				return err
			}
			sort.Slice(loaded, func(i, j int) bool { return loaded[i].seq < loaded[j].seq })

			for _, l := range loaded {
				switch r := l.rec.(type) {
				case *resource.Meditation:
					cat.Meditations = append(cat.Meditations, r)
				case *resource.SacredText:
					cat.SacredTexts = append(cat.SacredTexts, r)
				case *resource.Study:
					cat.Studies = append(cat.Studies, r)
				case *resource.Content:
					cat.Content = append(cat.Content, r)
				}
			}
		}

		return tx.Bucket(referencesBucket).ForEach(func(k []byte, v []byte) error {
			var related []resource.ReferenceTarget
			if err := json.Unmarshal(v, &related); err != nil {
				debuglog.Warnf("storage: skipping undecodable %s/%s: %v", referencesBucket, k, err)
				return nil
			}
			cat.References = append(cat.References, resource.Reference{SourceID: string(k), Related: related})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return cat, nil
}

// SaveCatalog stores every record and reference in cat.
func (s *Store) SaveCatalog(cat *resource.Catalog) error {
	if err := s.SaveRecords(cat.Records()...); err != nil {
		return err
	}
	return s.SaveReferences(cat.References)
}

// SaveReferences merges refs into the reference table. Targets already
// declared for a source id are not duplicated.
func (s *Store) SaveReferences(refs []resource.Reference) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(referencesBucket)
		for _, ref := range refs {
			if ref.SourceID == "" {
				continue
			}
			var related []resource.ReferenceTarget
			if data := b.Get([]byte(ref.SourceID)); data != nil {
				if err := json.Unmarshal(data, &related); err != nil {
					related = nil
				}
			}
			for _, target := range ref.Related {
				if !containsTarget(related, target) {
					related = append(related, target)
				}
			}
			data, err := json.Marshal(related)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(ref.SourceID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func containsTarget(targets []resource.ReferenceTarget, t resource.ReferenceTarget) bool {
	for _, existing := range targets {
		if existing.ID == t.ID && existing.Type == t.Type {
			return true
		}
	}
	return false
}

// SaveAnalytics replaces the persisted analytics with snapshot.
func (s *Store) SaveAnalytics(snapshot map[string]analytics.ResourceAnalytics) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(analyticsBucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		b, err := tx.CreateBucket(analyticsBucket)
		if err != nil {
			return err
		}
		for id, a := range snapshot {
			data, err := json.Marshal(a)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(id), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) LoadAnalytics() (map[string]analytics.ResourceAnalytics, error) {
	out := make(map[string]analytics.ResourceAnalytics)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(analyticsBucket).ForEach(func(k []byte, v []byte) error {
			var a analytics.ResourceAnalytics
			if err := json.Unmarshal(v, &a); err != nil {
				return nil
			}
			out[string(k)] = a
			return nil
		})
	})
	return out, err
}

func (s *Store) SaveFeed(feed *FeedSource) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(feedsBucket)
		data, err := json.Marshal(feed)
		if err != nil {
			return err
		}
		return b.Put([]byte(feed.ID), data)
	})
}

func (s *Store) GetFeed(id string) (*FeedSource, error) {
	var feed FeedSource
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(feedsBucket).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("feed %s: %w", id, ErrNotFound)
		}
		return json.Unmarshal(data, &feed)
	})
	if err != nil {
		return nil, err
	}
	return &feed, nil
}

func (s *Store) GetAllFeeds() ([]*FeedSource, error) {
	var feeds []*FeedSource
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(feedsBucket).ForEach(func(_ []byte, v []byte) error {
			var feed FeedSource
			if err := json.Unmarshal(v, &feed); err != nil {
				return err
			}
			feeds = append(feeds, &feed)
			return nil
		})
	})
	// Title (case-insensitive), falling back to URL
	sort.Slice(feeds, func(i, j int) bool {
		ti := feeds[i].Title
		tj := feeds[j].Title
		if ti == "" {
			ti = feeds[i].URL
		}
		if tj == "" {
			tj = feeds[j].URL
		}
		return strings.ToLower(ti) < strings.ToLower(tj)
	})
	return feeds, err
}

// DeleteFeed removes a feed and every content record imported from it.
func (s *Store) DeleteFeed(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(feedsBucket).Delete([]byte(id)); err != nil {
			return err
		}

		b := tx.Bucket(contentBucket)
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var sr storedRecord
			if err := json.Unmarshal(v, &sr); err != nil {
				return nil
			}
			var item resource.Content
			if err := json.Unmarshal(sr.Record, &item); err != nil {
				return nil
			}
			if item.Feed == id {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}

		return nil
	})
}

// Counts reports how many records each collection holds.
func (s *Store) Counts() (map[resource.SourceType]int, error) {
	counts := make(map[resource.SourceType]int, len(recordBuckets))
	err := s.db.View(func(tx *bolt.Tx) error {
		for st, name := range recordBuckets {
			counts[st] = tx.Bucket(name).Stats().KeyN
		}
		return nil
	})
	return counts, err
}

func (s *Store) SetMeta(key, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(metaBucket).Put([]byte(key), []byte(value))
	})
}

func (s *Store) GetMeta(key string) (string, error) {
	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(metaBucket).Get([]byte(key))
		if data == nil {
			return fmt.Errorf("metadata %s: %w", key, ErrNotFound)
		}
		value = string(data)
		return nil
	})
	return value, err
}
