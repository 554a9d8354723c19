package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/terraconstructs/shopctl/pkg/sdk"
)

// authPayload is the login/register response shape.
type authPayload struct {
	AccessToken string `mapstructure:"access_token"`
	Token       string `mapstructure:"token"`
	User        struct {
		Role string `mapstructure:"role"`
	} `mapstructure:"user"`
}

// identified matches objects carrying either "id" or "_id".
type identified struct {
	ID      string `mapstructure:"id"`
	ShortID string `mapstructure:"_id"`
}

func weakDecode(input, output any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           output,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// objectID returns the identifier of a decoded JSON object, or "".
func objectID(v any) string {
	obj, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	var out identified
	if err := weakDecode(obj, &out); err != nil {
		return ""
	}
	if out.ID != "" {
		return out.ID
	}
	return out.ShortID
}

func (d *Dispatcher) applyEffect(ctx context.Context, op Operation, body []byte, res *Result) {
	if op.Effect == EffectNone {
		return
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		if op.Effect == EffectSetCredential {
			res.Warnings = append(res.Warnings, "response is not a JSON object; session unchanged")
		}
		return
	}

	switch op.Effect {
	case EffectSetCredential:
		d.setCredential(ctx, payload, res)

	case EffectRecordCreated:
		id := objectID(payload[op.Envelope])
		if id == "" {
			return
		}
		if d.refs.RecordCreated(op.EffectKind, id) {
			res.Effects = append(res.Effects, fmt.Sprintf("current %s = %s", op.EffectKind, id))
			d.log.Debug().Str("kind", string(op.EffectKind)).Str("id", id).Msg("recorded reference")
		}
		if op.SeedsPayment {
			d.payment.SeedOrder(id)
			res.Effects = append(res.Effects, fmt.Sprintf("payment draft order_id = %s", id))
		}

	case EffectRecordFirstOfList:
		items, _ := payload[op.Envelope].([]any)
		if len(items) == 0 {
			return
		}
		ids := make([]string, 0, len(items))
		for _, item := range items {
			ids = append(ids, objectID(item))
		}
		if d.refs.RecordFirstOfList(op.EffectKind, ids) {
			res.Effects = append(res.Effects, fmt.Sprintf("current %s = %s", op.EffectKind, ids[0]))
			d.log.Debug().Str("kind", string(op.EffectKind)).Str("id", ids[0]).Msg("recorded reference")
		}

	case EffectRememberProfile:
		if user, ok := payload[op.Envelope].(map[string]any); ok {
			d.profile.Remember(user)
			res.Effects = append(res.Effects, "profile remembered for update")
		}
	}
}

// setCredential stores the token and role of an auth response. The role is
// read from user.role, falling back to the token's own role claim.
func (d *Dispatcher) setCredential(ctx context.Context, payload map[string]any, res *Result) {
	var auth authPayload
	if err := weakDecode(payload, &auth); err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("unexpected auth response: %v; session unchanged", err))
		return
	}

	token := auth.AccessToken
	if token == "" {
		token = auth.Token
	}
	if token == "" {
		res.Warnings = append(res.Warnings, "response carried no access token; session unchanged")
		return
	}

	role, err := sdk.ParseRole(auth.User.Role)
	if err != nil {
		if role, err = sdk.RoleFromToken(token); err != nil {
			res.Warnings = append(res.Warnings, "response carried no recognised role; session unchanged")
			return
		}
	}

	if err := d.session.SetCredential(ctx, token, role); err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("credential not persisted: %v", err))
	}
	res.Effects = append(res.Effects, "logged in as "+string(role))
}
