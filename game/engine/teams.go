package engine

// ArrangeRGB orders a roster for fair turn rotation across teams: players
// are bucketed by team in red, green, blue priority with join order kept
// inside each bucket, the buckets are interleaved round-robin (skipping any
// that run out), and players with no team are appended at the end in their
// original order. A roster where nobody has picked a team comes back
// unchanged. The result is idempotent for unchanged team assignments.
func ArrangeRGB(players []*Player) []*Player {
	var red, green, blue, unassigned []*Player
	for _, p := range players {
		switch p.Team {
		case TeamRed:
			red = append(red, p)
		case TeamGreen:
			green = append(green, p)
		case TeamBlue:
			blue = append(blue, p)
		default:
			unassigned = append(unassigned, p)
		}
	}

	if len(red)+len(green)+len(blue) == 0 {
		return players
	}

	arranged := make([]*Player, 0, len(players))
	buckets := [][]*Player{red, green, blue}
	for i := 0; ; i++ {
		taken := false
		for _, bucket := range buckets {
			if i < len(bucket) {
				arranged = append(arranged, bucket[i])
				taken = true
			}
		}
		if !taken {
			break
		}
	}

	return append(arranged, unassigned...)
}
