package refract

import "testing"

func TestChangeSet_MarkAndAcknowledge(t *testing.T) {
	var cs changeSet

	if pend, _ := cs.pending(OriginData); pend {
		t.Fatal("fresh change set must have nothing pending")
	}

	cs.mark(OriginData)
	pend, mark := cs.pending(OriginData)
	if !pend {
		t.Fatal("expected data pending after mark")
	}
	if pend, _ := cs.pending(OriginProcess); pend {
		t.Fatal("origins must be independent")
	}

	cs.acknowledge(OriginData, mark)
	if pend, _ := cs.pending(OriginData); pend {
		t.Fatal("acknowledged origin must not be pending")
	}
}

func TestChangeSet_MidRunMarkStaysPending(t *testing.T) {
	var cs changeSet

	cs.mark(OriginProcess)
	pend, mark := cs.pending(OriginProcess)
	if !pend {
		t.Fatal("expected process pending")
	}

	// A change arrives while the run is reloading.
	cs.mark(OriginProcess)

	cs.acknowledge(OriginProcess, mark)
	if pend, _ := cs.pending(OriginProcess); !pend {
		t.Fatal("a change arriving mid-run must survive the acknowledge")
	}
}

func TestChangeSet_StaleAcknowledgeIsIgnored(t *testing.T) {
	var cs changeSet

	cs.mark(OriginData)
	_, first := cs.pending(OriginData)
	cs.mark(OriginData)
	_, second := cs.pending(OriginData)

	cs.acknowledge(OriginData, second)
	cs.acknowledge(OriginData, first) // out of order, must not resurrect
	if pend, _ := cs.pending(OriginData); pend {
		t.Fatal("expected nothing pending after acknowledging the latest mark")
	}
}

func TestOriginString(t *testing.T) {
	if OriginData.String() != "data" || OriginProcess.String() != "process" {
		t.Fatalf("unexpected origin names: %s, %s", OriginData, OriginProcess)
	}
}
