package engine

import "testing"

func TestWDLIsSymmetricAroundEquality(t *testing.T) {
	win, draw, loss := WDL(0, 0)
	if win != loss {
		t.Fatalf("expected win/loss symmetry at v=0, got win=%d loss=%d", win, loss)
	}
	if draw <= 0 {
		t.Fatalf("expected a positive draw probability at v=0, got %d", draw)
	}
}

func TestWDLWinIncreasesWithScore(t *testing.T) {
	_, _, lossLow := WDL(100, 0)
	_, _, lossHigh := WDL(600, 0)
	winLow, _, _ := WDL(100, 0)
	winHigh, _, _ := WDL(600, 0)
	if winHigh <= winLow {
		t.Fatalf("expected win probability to increase with score: win(100)=%d win(600)=%d", winLow, winHigh)
	}
	if lossHigh >= lossLow {
		t.Fatalf("expected loss probability to decrease with score: loss(100)=%d loss(600)=%d", lossLow, lossHigh)
	}
}

func TestWDLSumsToAroundOneThousand(t *testing.T) {
	for _, v := range []Value{-3000, -500, 0, 500, 3000} {
		win, draw, loss := WDL(v, 40)
		total := win + draw + loss
		if total < 995 || total > 1005 {
			t.Fatalf("expected win+draw+loss near 1000 at v=%d, got %d", v, total)
		}
	}
}
