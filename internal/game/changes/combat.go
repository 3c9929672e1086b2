package changes

import (
	"context"
	"fmt"
	"math"

	"github.com/nfrund/fogwar/internal/game/world"
	"github.com/nfrund/fogwar/internal/middleware"
)

// attack resolves one exchange. Missing units count as a miss. A hit costs
// the defender the attack value and the attacker the defence value of the
// attacker/defender pairing at the same time, so both may die.
func (p *Processor) attack(ctx context.Context, s *world.State, user string, attackerID, defenderID int, out *Outcome) bool {
	logger := middleware.FromContext(ctx)
	attacker, okA := s.FindUnit(attackerID)
	defender, okD := s.FindUnit(defenderID)

	if !okA || !okD {
		logger.Warn("Attack with unknown unit", "attacker_id", attackerID, "defender_id", defenderID)
		// The miss is reported against the defender's type even when the
		// defender is the missing unit.
		defenderType, defenderOwner, attackerOwner := "", "", user
		if okD {
			defenderType, defenderOwner = defender.Type, defender.User
		}
		if okA {
			attackerOwner = attacker.User
		}
		out.notifyOwners(fmt.Sprintf("Attack on %s missed", defenderType), attackerOwner, defenderOwner)
		return false
	}
	if attacker.User != user {
		logger.Warn("Attack with another player's unit", "attacker_id", attackerID, "user", user)
		return false
	}

	dodge := p.catalog.DodgeChance(attacker.Type, defender.Type)
	if dodge > 0 && dodge >= p.roll() {
		out.notifyOwners(fmt.Sprintf("Attack by %s on %s missed", attacker.Type, defender.Type), attacker.User, defender.User)
		return true
	}

	dealt := int(math.Round(p.catalog.AttackStrength(attacker.Type, defender.Type)))
	taken := int(math.Round(p.catalog.DefenceStrength(attacker.Type, defender.Type)))
	defender.HP -= dealt
	attacker.HP -= taken
	out.Mutated = true
	out.notifyOwners(fmt.Sprintf("%s %d hit %s %d for %d damage and took %d", attacker.Type, attacker.ID, defender.Type, defender.ID, dealt, taken),
		attacker.User, defender.User)

	p.removeIfDead(s, defender, attacker, out)
	p.removeIfDead(s, attacker, defender, out)
	return true
}

func (p *Processor) removeIfDead(s *world.State, victim, victor *world.Unit, out *Outcome) {
	if victim.HP > 0 {
		return
	}
	s.DeleteUnit(victim.ID)
	out.Casualties = append(out.Casualties, Casualty{UnitID: victim.ID, UnitType: victim.Type, Owner: victim.User, By: victor.Type})
	out.notifyOwners(fmt.Sprintf("%s's %s %d was destroyed by %s's %s %d", victim.User, victim.Type, victim.ID, victor.User, victor.Type, victor.ID),
		victim.User, victor.User)
}
