package types

import (
	"encoding/json"
	"reflect"
)

// Each entity keeps the keys it does not model in Extra and writes them
// back after its known keys. The *Fields types drop the methods so the
// known keys can be encoded without recursing.

type (
	stakeholderFields Stakeholder
	assumptionFields  Assumption
	ideaFields        Idea
	insightFields     Insight
	playbackFields    Playback
)

var (
	stakeholderKeys = jsonKeys(reflect.TypeOf(Stakeholder{}))
	assumptionKeys  = jsonKeys(reflect.TypeOf(Assumption{}))
	ideaKeys        = jsonKeys(reflect.TypeOf(Idea{}))
	insightKeys     = jsonKeys(reflect.TypeOf(Insight{}))
	playbackKeys    = jsonKeys(reflect.TypeOf(Playback{}))
)

func isNull(data []byte) bool {
	return string(data) == "null"
}

func (s Stakeholder) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(stakeholderFields(s))
	if err != nil {
		return nil, err
	}
	return withExtra(known, s.Extra, stakeholderKeys)
}

func (s *Stakeholder) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	var known stakeholderFields
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	extra, err := extraKeys(data, stakeholderKeys)
	if err != nil {
		return err
	}
	*s = Stakeholder(known)
	s.Extra = extra
	return nil
}

func (a Assumption) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(assumptionFields(a))
	if err != nil {
		return nil, err
	}
	return withExtra(known, a.Extra, assumptionKeys)
}

func (a *Assumption) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	var known assumptionFields
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	extra, err := extraKeys(data, assumptionKeys)
	if err != nil {
		return err
	}
	*a = Assumption(known)
	a.Extra = extra
	return nil
}

func (i Idea) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(ideaFields(i))
	if err != nil {
		return nil, err
	}
	return withExtra(known, i.Extra, ideaKeys)
}

func (i *Idea) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	var known ideaFields
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	extra, err := extraKeys(data, ideaKeys)
	if err != nil {
		return err
	}
	*i = Idea(known)
	i.Extra = extra
	return nil
}

func (n Insight) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(insightFields(n))
	if err != nil {
		return nil, err
	}
	return withExtra(known, n.Extra, insightKeys)
}

func (n *Insight) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	var known insightFields
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	extra, err := extraKeys(data, insightKeys)
	if err != nil {
		return err
	}
	*n = Insight(known)
	n.Extra = extra
	return nil
}

func (p Playback) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(playbackFields(p))
	if err != nil {
		return nil, err
	}
	return withExtra(known, p.Extra, playbackKeys)
}

func (p *Playback) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	var known playbackFields
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	extra, err := extraKeys(data, playbackKeys)
	if err != nil {
		return err
	}
	*p = Playback(known)
	p.Extra = extra
	return nil
}
