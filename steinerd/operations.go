// The operation registry and the accessor the operations work through.

package main

import (
	"github.com/juju/errors"
)

type EntityAccessor struct {
	inputs  map[string]Entity
	outputs map[GUID]Entity
	opInst  *OperationInstance
	server  *Server
}

func collectInputs(server *Server, opInst *OperationInstance) (map[string]Entity, error) {
	inputs := make(map[string]Entity, len(opInst.Inputs))
	for name, guid := range opInst.Inputs {
		entity, exists := server.entityCache.Get(guid)
		if !exists {
			return nil, NotInCacheError("input", guid)
		}
		inputs[name] = entity
	}
	return inputs, nil
}

func (ea *EntityAccessor) output(name string, entity Entity) error {
	guid, exists := ea.opInst.Outputs[name]
	if !exists {
		return errors.Errorf("could not find %q among output names", name)
	}
	ea.outputs[guid] = entity
	return nil
}

func (ea *EntityAccessor) outputScalar(name string, value interface{}) error {
	s, err := ScalarFrom(value)
	if err != nil {
		return errors.Trace(err)
	}
	return ea.output(name, &s)
}

func (ea *EntityAccessor) getVertexSet(name string) *VertexSet {
	return ea.inputs[name].(*VertexSet)
}

func (ea *EntityAccessor) getEdgeBundle(name string) *EdgeBundle {
	return ea.inputs[name].(*EdgeBundle)
}

func (ea *EntityAccessor) getScalar(name string) *Scalar {
	return ea.inputs[name].(*Scalar)
}

func (ea *EntityAccessor) getDoubleAttribute(name string) *DoubleAttribute {
	return ea.inputs[name].(*DoubleAttribute)
}

// May return nil.
func (ea *EntityAccessor) getDoubleAttributeOpt(name string) *DoubleAttribute {
	if _, exists := ea.inputs[name]; exists {
		return ea.getDoubleAttribute(name)
	}
	return nil
}

func (ea *EntityAccessor) getLongAttribute(name string) *LongAttribute {
	return ea.inputs[name].(*LongAttribute)
}

func (ea *EntityAccessor) getStringAttribute(name string) *StringAttribute {
	return ea.inputs[name].(*StringAttribute)
}

func (ea *EntityAccessor) GetFloatParam(name string) float64 {
	return ea.opInst.Operation.Data[name].(float64)
}

func (ea *EntityAccessor) GetFloatParamWithDefault(name string, dflt float64) float64 {
	if field, exists := ea.opInst.Operation.Data[name]; exists {
		return field.(float64)
	}
	return dflt
}

func (ea *EntityAccessor) GetBoolParam(name string) bool {
	return ea.opInst.Operation.Data[name].(bool)
}

func (ea *EntityAccessor) GetStringParam(name string) string {
	return ea.opInst.Operation.Data[name].(string)
}

type Operation struct {
	execute    func(ea *EntityAccessor) error
	canCompute func(operationDescription OperationDescription) bool
}

var operationRepository = map[string]Operation{}
