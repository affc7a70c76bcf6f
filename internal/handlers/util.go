package handlers

import (
  "encoding/json"
  "strings"
)

func bindJSONString(raw string, out any) error {
  dec := json.NewDecoder(strings.NewReader(raw))
  return dec.Decode(out)
}
