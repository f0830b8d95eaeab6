package codec

import (
	"fmt"
	"sort"

	"cypress/internal/connector"
	"cypress/internal/model"
	"cypress/internal/network"
	"cypress/internal/neuron"
	"cypress/internal/synapse"
)

// Connectors without a symbolic wire form travel as a materialized synapse
// list.
var materializedConnectors = map[string]bool{
	"FromListConnector":         true,
	"FunctorConnector":          true,
	"UniformFunctorConnector":   true,
	"FixedProbabilityConnector": true,
}

// BuildDocument captures a network into its wire form. Materializing
// connectors advances their PRNG state, as any Connect call does.
func BuildDocument(net *network.Network, simulator string, setup map[string]any, duration model.Real) (*Document, error) {
	doc := &Document{
		Simulator: simulator,
		Setup:     setup,
		Duration:  duration,
		Network: NetworkDoc{
			Populations: make([]PopulationDoc, 0, net.PopulationCount()),
			Connections: make([]ConnectionDoc, 0, len(net.Connections())),
			Recordings:  []RecordingDoc{},
			Runtime:     net.Runtime(),
		},
	}

	for pid := 0; pid < net.PopulationCount(); pid++ {
		data := net.Data(model.PopulationIndex(pid))
		doc.Network.Populations = append(doc.Network.Populations, PopulationDoc{
			Type:       data.Type().Name,
			Size:       data.Size(),
			Label:      data.Name(),
			Parameters: parameterShape(data),
			Records:    recordShape(data),
		})
		recs, err := recordingDocs(model.PopulationIndex(pid), data)
		if err != nil {
			return nil, err
		}
		doc.Network.Recordings = append(doc.Network.Recordings, recs...)
	}

	for _, d := range net.Connections() {
		cd := ConnectionDoc{
			PidSrc:              d.SrcPop,
			NidSrc0:             d.SrcBegin,
			NidSrc1:             d.SrcEnd,
			PidTar:              d.TarPop,
			NidTar0:             d.TarBegin,
			NidTar1:             d.TarEnd,
			Label:               d.Label,
			ConnName:            d.Conn.Name(),
			AllowSelf:           d.Conn.AllowSelfConnections(),
			AdditionalParameter: d.Conn.AdditionalParameter(),
			SynName:             d.Conn.Synapse().Name(),
			Params:              d.Conn.Synapse().Parameters(),
		}
		if materializedConnectors[cd.ConnName] {
			conns := d.Conn.Connect(d)
			rows := make([][]model.Real, 0, len(conns))
			for _, c := range conns {
				row := make([]model.Real, 0, 2+len(c.Params))
				row = append(row, model.Real(c.Src), model.Real(c.Tar))
				row = append(row, c.Params...)
				rows = append(rows, row)
			}
			cd.Connections = rows
		}
		doc.Network.Connections = append(doc.Network.Connections, cd)
	}

	return doc, nil
}

func parameterShape(data *network.PopulationData) ParameterShape {
	rows := data.ParameterRows()
	copied := make([][]model.Real, len(rows))
	for i, row := range rows {
		copied[i] = append([]model.Real{}, row...)
	}
	return ParameterShape{
		Homogeneous: data.HomogeneousParameters(),
		Rows:        copied,
	}
}

func recordShape(data *network.PopulationData) RecordShape {
	signals := data.Type().Signals
	rows := data.RecordRows()
	if data.HomogeneousRecord() {
		var names []string
		for i, on := range rows[0] {
			if on {
				names = append(names, signals[i])
			}
		}
		sort.Strings(names)
		return RecordShape{Homogeneous: true, Signals: names}
	}

	flags := make(map[string][]bool)
	for i, sig := range signals {
		col := make([]bool, len(rows))
		any := false
		for k, row := range rows {
			col[k] = row[i]
			any = any || row[i]
		}
		if any {
			flags[sig] = col
		}
	}
	return RecordShape{Homogeneous: false, Flags: flags}
}

func recordingDocs(pid model.PopulationIndex, data *network.PopulationData) ([]RecordingDoc, error) {
	var out []RecordingDoc
	for i, sig := range data.Type().Signals {
		ids := data.RecordedNeurons(i)
		if len(ids) == 0 {
			continue
		}
		matrices := make([][][]model.Real, 0, len(ids))
		for _, nid := range ids {
			matrices = append(matrices, data.Trace(nid, i).ToRows())
		}
		out = append(out, RecordingDoc{
			Pid:    pid,
			Signal: sig,
			Data:   matrices,
			Ids:    ids,
		})
	}
	return out, nil
}

// BuildNetwork reconstructs a network from its wire form.
func BuildNetwork(doc *Document) (*network.Network, error) {
	net := network.New()
	for i, pd := range doc.Network.Populations {
		typ, err := neuron.Resolve(pd.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: population %d: %v", ErrMalformedDocument, i, err)
		}
		pop, err := net.AddPopulation(typ, pd.Size, nil, pd.Label)
		if err != nil {
			return nil, fmt.Errorf("%w: population %d: %v", ErrMalformedDocument, i, err)
		}
		data := pop.Data()
		if err := data.SetParameterRows(pd.Parameters.Rows); err != nil {
			return nil, fmt.Errorf("%w: population %d: %v", ErrMalformedDocument, i, err)
		}
		if err := applyRecords(data, typ, pd.Records); err != nil {
			return nil, fmt.Errorf("%w: population %d: %v", ErrMalformedDocument, i, err)
		}
	}

	for i, cd := range doc.Network.Connections {
		conn, err := buildConnector(cd)
		if err != nil {
			return nil, fmt.Errorf("%w: connection %d: %v", ErrMalformedDocument, i, err)
		}
		err = net.AddDescriptor(connector.Descriptor{
			SrcPop:   cd.PidSrc,
			TarPop:   cd.PidTar,
			SrcBegin: cd.NidSrc0,
			SrcEnd:   cd.NidSrc1,
			TarBegin: cd.NidTar0,
			TarEnd:   cd.NidTar1,
			Label:    cd.Label,
			Conn:     conn,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: connection %d: %v", ErrMalformedDocument, i, err)
		}
	}

	if err := MergeRecordings(doc, net); err != nil {
		return nil, err
	}
	return net, nil
}

func applyRecords(data *network.PopulationData, typ *neuron.Type, records RecordShape) error {
	if records.Homogeneous {
		row := make([]bool, typ.SignalCount())
		for _, sig := range records.Signals {
			i, ok := typ.SignalIndex(sig)
			if !ok {
				return fmt.Errorf("unknown signal %q for type %s", sig, typ.Name)
			}
			row[i] = true
		}
		return data.SetRecordRows([][]bool{row})
	}

	rows := make([][]bool, data.Size())
	for k := range rows {
		rows[k] = make([]bool, typ.SignalCount())
	}
	for sig, col := range records.Flags {
		i, ok := typ.SignalIndex(sig)
		if !ok {
			return fmt.Errorf("unknown signal %q for type %s", sig, typ.Name)
		}
		if len(col) != data.Size() {
			return fmt.Errorf("signal %q: %d flags for %d neurons", sig, len(col), data.Size())
		}
		for k, on := range col {
			rows[k][i] = on
		}
	}
	return data.SetRecordRows(rows)
}

func buildConnector(cd ConnectionDoc) (connector.Connector, error) {
	syn, err := synapse.FromName(cd.SynName, cd.Params)
	if err != nil {
		return nil, err
	}
	if cd.Connections != nil || materializedConnectors[cd.ConnName] {
		entries := make([]connector.Connection, 0, len(cd.Connections))
		for _, row := range cd.Connections {
			if len(row) < 2 {
				return nil, fmt.Errorf("materialized row needs src, tar and parameters")
			}
			entries = append(entries, connector.Connection{
				Src:    model.NeuronIndex(row[0]),
				Tar:    model.NeuronIndex(row[1]),
				Params: append([]model.Real(nil), row[2:]...),
			})
		}
		return connector.FromConnections(cd.ConnName, syn, cd.AdditionalParameter, cd.AllowSelf, entries)
	}
	return connector.FromGroup(cd.ConnName, syn, cd.AdditionalParameter, cd.AllowSelf)
}

// MergeRecordings writes a document's recordings and runtime into an
// existing network, the final step of an out-of-process run.
func MergeRecordings(doc *Document, net *network.Network) error {
	for _, rec := range doc.Network.Recordings {
		if int(rec.Pid) < 0 || int(rec.Pid) >= net.PopulationCount() {
			return fmt.Errorf("%w: recording for unknown population %d", ErrMalformedDocument, rec.Pid)
		}
		data := net.Data(rec.Pid)
		sig, ok := data.Type().SignalIndex(rec.Signal)
		if !ok {
			return fmt.Errorf("%w: recording for unknown signal %q", ErrMalformedDocument, rec.Signal)
		}
		if len(rec.Data) != len(rec.Ids) {
			return fmt.Errorf("%w: %d matrices for %d neuron ids", ErrMalformedDocument, len(rec.Data), len(rec.Ids))
		}
		for k, nid := range rec.Ids {
			if int(nid) < 0 || int(nid) >= data.Size() {
				return fmt.Errorf("%w: recording for neuron %d outside population of size %d", ErrMalformedDocument, nid, data.Size())
			}
			m, err := model.MatrixFromRows(rec.Data[k])
			if err != nil {
				return fmt.Errorf("%w: %v", ErrMalformedDocument, err)
			}
			if err := data.SetTrace(nid, sig, m); err != nil {
				return err
			}
		}
	}
	net.SetRuntime(doc.Network.Runtime)
	return nil
}
