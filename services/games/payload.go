package games

// Payload readers for the loosely-typed JSON maps socket.io delivers.
// Numbers arrive as float64 regardless of what the client sent.

func PayloadString(payload map[string]interface{}, key string) (string, bool) {
	v, ok := payload[key].(string)
	return v, ok
}

func PayloadInt(payload map[string]interface{}, key string) (int, bool) {
	switch v := payload[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func PayloadIntSlice(payload map[string]interface{}, key string) ([]int, bool) {
	raw, ok := payload[key].([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]int, 0, len(raw))
	for _, item := range raw {
		n, ok := item.(float64)
		if !ok {
			return nil, false
		}
		out = append(out, int(n))
	}
	return out, true
}

func PayloadStringSlice(payload map[string]interface{}, key string) ([]string, bool) {
	raw, ok := payload[key].([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// PayloadIntMap reads an object of integer values (a horse bet-set, for
// example).
func PayloadIntMap(payload map[string]interface{}, key string) (map[string]int, bool) {
	raw, ok := payload[key].(map[string]interface{})
	if !ok {
		return nil, false
	}
	out := make(map[string]int, len(raw))
	for k, item := range raw {
		n, ok := item.(float64)
		if !ok {
			return nil, false
		}
		out[k] = int(n)
	}
	return out, true
}
