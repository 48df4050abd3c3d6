package util

import (
	"encoding/json"
	"strings"
)

// JSONShape 期望从模型输出中提取的JSON形态
type JSONShape int

const (
	ShapeAuto JSONShape = iota
	ShapeObject
	ShapeArray
)

// ExtractJSON 从模型返回的自由文本中提取一段语法上可能合法的JSON。
// 该函数从不失败：提取不到时原样返回去除空白后的文本，
// 由调用方的json.Unmarshal暴露解析错误。
func ExtractJSON(raw string, shape JSONShape) string {
	s := stripCodeFences(strings.TrimSpace(raw))

	// 快路径：模型输出本身就是合法JSON
	if json.Valid([]byte(s)) {
		return s
	}

	obj := widestSpan(s, '{', '}')
	arr := widestSpan(s, '[', ']')

	var chosen string
	switch shape {
	case ShapeObject:
		chosen = firstNonEmpty(obj, arr)
	case ShapeArray:
		chosen = firstNonEmpty(arr, obj)
	default:
		// auto：对象段包含已知顶层key时优先对象，否则优先数组
		if obj != "" && (strings.Contains(obj, `"scenes"`) || strings.Contains(obj, `"title"`)) {
			chosen = obj
		} else {
			chosen = firstNonEmpty(arr, obj)
		}
	}

	if chosen == "" {
		return s
	}
	return stripLineComments(chosen)
}

// stripCodeFences 去掉包裹输出的markdown三反引号（带或不带json语言标记）
func stripCodeFences(src string) string {
	s := strings.TrimSpace(src)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	body := lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		body = lines[1 : len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(body, "\n"))
}

// widestSpan 返回最外层open..close的最宽子串，不存在时返回空串
func widestSpan(s string, open, close byte) string {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return s[start : end+1]
}

// stripLineComments 去掉字符串字面量之外的行尾//注释（模型偶尔会加）
func stripLineComments(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		inString := false
		escaped := false
		for j := 0; j < len(line); j++ {
			ch := line[j]
			if escaped {
				escaped = false
				continue
			}
			switch ch {
			case '\\':
				escaped = inString
			case '"':
				inString = !inString
			case '/':
				if !inString && j+1 < len(line) && line[j+1] == '/' {
					lines[i] = strings.TrimRight(line[:j], " \t")
					j = len(line)
				}
			}
		}
	}
	return strings.Join(lines, "\n")
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
