package detection

const systemPrompt = `You are a facial expression classifier. You score the expression of the most prominent human face in an image.`

const classifyPrompt = `Score the facial expression of the most prominent face in this image against each of these labels:
angry, disgust, fear, happy, sad, surprise, neutral.

Scores are percentages from 0 to 100 and should sum to roughly 100.
If no face is visible, still return a best-effort score map that leans toward neutral.

Respond with a single JSON object and nothing else:
{"dominant_emotion": "<label with the highest score>", "emotion": {"angry": 0.0, "disgust": 0.0, "fear": 0.0, "happy": 0.0, "sad": 0.0, "surprise": 0.0, "neutral": 0.0}}`
