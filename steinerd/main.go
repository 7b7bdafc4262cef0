// steinerd is a batch runner for graph operations. A driver hands it a
// JSON file listing operation instances and disk transfers; the
// operations run on in-memory entities, so there is no need for slow
// distributed computations.

package main

import (
	"encoding/json"
	"io/ioutil"
	"log"
	"os"
	"strings"

	"github.com/juju/errors"
)

type Server struct {
	entityCache      EntityCache
	dataDir          string
	unorderedDataDir string
}

func NewServer() Server {
	dataDir := os.Getenv("STEINERD_ORDERED_DATA_DIR")
	unorderedDataDir := os.Getenv("STEINERD_UNORDERED_DATA_DIR")
	os.MkdirAll(dataDir, 0775)
	os.MkdirAll(unorderedDataDir, 0775)
	return Server{
		entityCache:      NewEntityCache(),
		dataDir:          dataDir,
		unorderedDataDir: unorderedDataDir,
	}
}

func (s *Server) getVertexSet(guid GUID) (*VertexSet, error) {
	entity, exists := s.entityCache.Get(guid)
	if !exists {
		return nil, NotInCacheError("vertex set", guid)
	}
	switch vs := entity.(type) {
	case *VertexSet:
		return vs, nil
	default:
		return nil, errors.Errorf("guid %v is a %T, not a vertex set", guid, vs)
	}
}

// An UnorderedTransfer names an entity to move between the cache and
// the unordered disk format. Attributes and edge bundles carry the
// vertex sets they are defined on.
type UnorderedTransfer struct {
	Guid    GUID
	Type    string
	Vsguid1 GUID
	Vsguid2 GUID
}

// A BatchStep is one instruction of a batch file. Exactly one field is
// set.
type BatchStep struct {
	Compute        *OperationInstance
	WriteOrdered   *GUID
	ReadOrdered    *GUID
	WriteUnordered *UnorderedTransfer
	ReadUnordered  *UnorderedTransfer
}

func shortOpName(opInst *OperationInstance) string {
	className := opInst.Operation.Class
	if i := strings.LastIndex(className, "."); i >= 0 {
		return className[i+1:]
	}
	return className
}

// Compute runs one operation on cached inputs and caches its outputs.
func (s *Server) Compute(opInst *OperationInstance) error {
	name := shortOpName(opInst)
	log.Printf("Computing %v.", name)
	op, exists := operationRepository[name]
	if !exists {
		return errors.Errorf("can't compute %v", name)
	}
	if op.canCompute != nil && !op.canCompute(opInst.Operation) {
		return errors.Errorf("can't compute %v with %v", name, opInst.Operation.Data)
	}
	inputs, err := collectInputs(s, opInst)
	if err != nil {
		return errors.Trace(err)
	}
	ea := EntityAccessor{inputs: inputs, outputs: make(map[GUID]Entity), opInst: opInst, server: s}
	if err := op.execute(&ea); err != nil {
		return errors.Trace(err)
	}
	for guid, entity := range ea.outputs {
		s.entityCache.Set(guid, entity)
	}
	return nil
}

func (s *Server) runStep(step BatchStep) error {
	switch {
	case step.Compute != nil:
		return s.Compute(step.Compute)
	case step.WriteOrdered != nil:
		guid := *step.WriteOrdered
		e, exists := s.entityCache.Get(guid)
		if !exists {
			return errors.Errorf("guid %v is missing", guid)
		}
		return saveToOrderedDisk(e, s.dataDir, guid)
	case step.ReadOrdered != nil:
		guid := *step.ReadOrdered
		e, err := loadFromOrderedDisk(s.dataDir, guid)
		if err != nil {
			return errors.Trace(err)
		}
		s.entityCache.Set(guid, e)
		return nil
	case step.WriteUnordered != nil:
		t := step.WriteUnordered
		return s.writeToUnorderedDisk(t.Guid, t.Vsguid1, t.Vsguid2)
	case step.ReadUnordered != nil:
		t := step.ReadUnordered
		return s.readFromUnorderedDisk(t.Guid, t.Type, t.Vsguid1, t.Vsguid2)
	default:
		return errors.New("batch step has no instruction")
	}
}

func (s *Server) RunBatch(steps []BatchStep) error {
	for i, step := range steps {
		if err := s.runStep(step); err != nil {
			return errors.Annotatef(err, "step %v", i)
		}
	}
	return nil
}

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %v <batch.json>", os.Args[0])
	}
	raw, err := ioutil.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("failed to read batch file: %v", err)
	}
	var steps []BatchStep
	if err := json.Unmarshal(raw, &steps); err != nil {
		log.Fatalf("failed to parse batch file: %v", err)
	}
	server := NewServer()
	if err := server.RunBatch(steps); err != nil {
		log.Fatalf("batch failed: %v", errors.ErrorStack(err))
	}
	log.Printf("Batch of %v steps done.", len(steps))
}
