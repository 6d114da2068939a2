package errors

import "testing"

func TestCollectingSinkAppendsInOrder(t *testing.T) {
	sink := &CollectingSink{}
	r1 := New(ReportUndefinedVariable, span(), "first")
	r2 := New(ReportUnusedImport, span(), "second")
	sink.Report(r1)
	sink.Report(r2)
	if len(sink.Reports) != 2 || sink.Reports[0] != r1 || sink.Reports[1] != r2 {
		t.Fatal("expected reports collected in emission order")
	}
}

func TestNullSinkDiscards(t *testing.T) {
	var s NullSink
	s.Report(New(ReportUndefinedVariable, span(), "dropped"))
}

func TestSilenceSwapsAndRestores(t *testing.T) {
	var sink Sink = &CollectingSink{}
	original := sink

	Silence(&sink, func() {
		if _, ok := sink.(NullSink); !ok {
			t.Fatal("expected sink to be swapped to NullSink during Silence")
		}
		sink.Report(New(ReportUndefinedVariable, span(), "swallowed"))
	})

	if sink != original {
		t.Fatal("expected Silence to restore the original sink")
	}
	cs := sink.(*CollectingSink)
	if len(cs.Reports) != 0 {
		t.Fatal("expected no reports to have reached the original sink")
	}
}

func TestSilenceRestoresOnPanic(t *testing.T) {
	var sink Sink = &CollectingSink{}
	original := sink

	func() {
		defer func() { recover() }()
		Silence(&sink, func() {
			panic("boom")
		})
	}()

	if sink != original {
		t.Fatal("expected Silence to restore the original sink even after a panic")
	}
}

func TestSilenceProbeReturnsWhatItCollected(t *testing.T) {
	reports := SilenceProbe(func(sink Sink) {
		sink.Report(New(ReportUndefinedVariable, span(), "candidate failed"))
	})
	if len(reports) != 1 {
		t.Fatalf("expected one collected report, got %d", len(reports))
	}
}
